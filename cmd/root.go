// Package cmd is for command line interactions with the phylo application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "phylo",
	Short: `Build phylogenetic trees from multiple sequence alignments.
Estimate pairwise distances under a substitution model and cluster
the taxa with Neighbor-Joining or UPGMA`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
