package cmd

import (
	"github.com/jjtimmons/phylo/internal/phylo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var modelHelp = `substitution model for pairwise distances. One of:
hamming, jc, kimura, gtr (DNA only), scoredist (protein only)`

// matrixCmd writes a pairwise distance matrix without clustering it
var matrixCmd = &cobra.Command{
	Use:                        "matrix",
	Short:                      "Estimate a pairwise distance matrix from an alignment",
	Run:                        phylo.MatrixCmd,
	SuggestionsMinimumDistance: 2,
	Long: `
Estimate evolutionary distances between every pair of aligned sequences
under a substitution model and write them as a square PHYLIP matrix.

The alphabet (DNA versus protein) is detected from the alignment itself.`,
}

func init() {
	matrixCmd.Flags().StringP("in", "i", "", "input alignment <FASTA>")
	matrixCmd.Flags().StringP("out", "o", "", "output matrix file <PHYLIP>. Writes to stdout when empty")
	matrixCmd.Flags().StringP("model", "m", "", modelHelp)
	matrixCmd.Flags().IntP("workers", "w", 0, "number of concurrent workers. Defaults to the CPU count")

	viper.BindPFlag("model", matrixCmd.Flags().Lookup("model"))
	viper.BindPFlag("workers", matrixCmd.Flags().Lookup("workers"))

	rootCmd.AddCommand(matrixCmd)
}
