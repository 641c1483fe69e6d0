package cmd

import (
	"github.com/jjtimmons/phylo/internal/phylo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	bootstrapHelp = `number of bootstrap replicates for branch support values.
0 skips support estimation, -1 uses the configured default`

	constraintHelp = `path to a Newick guide tree. Every merge in the output is
kept compatible with the guide tree's splits`
)

// njCmd builds a Neighbor-Joining tree from an input alignment
var njCmd = &cobra.Command{
	Use:                        "nj",
	Short:                      "Build a Neighbor-Joining tree from an alignment",
	Run:                        phylo.NJCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Build an unrooted phylogenetic tree with the Neighbor-Joining algorithm
(Saitou & Nei 1987). Pairwise distances are estimated under the chosen
substitution model, negative branch lengths are corrected unless
--negative is passed, and bootstrap support values are attached to
internal branches when --bootstrap is above zero.`,
}

func init() {
	njCmd.Flags().StringP("in", "i", "", "input alignment <FASTA>")
	njCmd.Flags().StringP("out", "o", "", "output tree file <Newick>. Writes to stdout when empty")
	njCmd.Flags().StringP("model", "m", "", modelHelp)
	njCmd.Flags().IntP("workers", "w", 0, "number of concurrent workers. Defaults to the CPU count")
	njCmd.Flags().IntP("bootstrap", "b", 0, bootstrapHelp)
	njCmd.Flags().Int64("seed", 0, "random seed for bootstrap resampling")
	njCmd.Flags().Bool("negative", false, "keep negative branch lengths instead of correcting them")
	njCmd.Flags().StringP("constraint", "c", "", constraintHelp)

	viper.BindPFlag("model", njCmd.Flags().Lookup("model"))
	viper.BindPFlag("workers", njCmd.Flags().Lookup("workers"))
	viper.BindPFlag("bootstrap.replicates", njCmd.Flags().Lookup("bootstrap"))
	viper.BindPFlag("bootstrap.seed", njCmd.Flags().Lookup("seed"))
	viper.BindPFlag("negative", njCmd.Flags().Lookup("negative"))
	viper.BindPFlag("constraint", njCmd.Flags().Lookup("constraint"))

	rootCmd.AddCommand(njCmd)
}
