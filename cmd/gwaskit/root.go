package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	gwaskitlog "github.com/gwaskit/gwaskit/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for gwaskit.
var rootCmd = &cobra.Command{
	Use:   "gwaskit",
	Short: "GWAS Catalog tools over the Model Context Protocol",
	Long: `Gwaskit exposes the GWAS Catalog REST API and the GWAS Summary
Statistics API as MCP tools. Agents can look up studies, associations,
variants and traits, search genomic regions, and rank variants by
significance; oversized result sets are spilled to JSON files on disk.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		gwaskitlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(versionCmd)
}
