package cmd

import (
	"github.com/jjtimmons/phylo/internal/phylo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// upgmaCmd builds a rooted ultrametric tree from an input alignment
var upgmaCmd = &cobra.Command{
	Use:                        "upgma",
	Short:                      "Build a UPGMA tree from an alignment",
	Run:                        phylo.UPGMACmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Build a rooted ultrametric tree with UPGMA (average-linkage hierarchical
clustering). Every leaf ends up at the same depth, which assumes a
constant rate of evolution across lineages. Use "phylo nj" when that
assumption does not hold.`,
}

func init() {
	upgmaCmd.Flags().StringP("in", "i", "", "input alignment <FASTA>")
	upgmaCmd.Flags().StringP("out", "o", "", "output tree file <Newick>. Writes to stdout when empty")
	upgmaCmd.Flags().StringP("model", "m", "", modelHelp)
	upgmaCmd.Flags().IntP("workers", "w", 0, "number of concurrent workers. Defaults to the CPU count")
	upgmaCmd.Flags().IntP("bootstrap", "b", 0, bootstrapHelp)
	upgmaCmd.Flags().Int64("seed", 0, "random seed for bootstrap resampling")
	upgmaCmd.Flags().StringP("constraint", "c", "", constraintHelp)

	viper.BindPFlag("model", upgmaCmd.Flags().Lookup("model"))
	viper.BindPFlag("workers", upgmaCmd.Flags().Lookup("workers"))
	viper.BindPFlag("bootstrap.replicates", upgmaCmd.Flags().Lookup("bootstrap"))
	viper.BindPFlag("bootstrap.seed", upgmaCmd.Flags().Lookup("seed"))
	viper.BindPFlag("constraint", upgmaCmd.Flags().Lookup("constraint"))

	rootCmd.AddCommand(upgmaCmd)
}
