package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gwaskit/gwaskit/internal/mcpserver"
)

// Shared color printers for the tools listing.
var (
	colorBold = color.New(color.Bold)
	colorDim  = color.New(color.Faint)
)

// toolsCmd lists the MCP tools the server exposes.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available MCP tools",
	Long:  "List the GWAS Catalog tools exposed by `gwaskit mcp serve`, with a short description of each.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		for _, tool := range mcpserver.Tools() {
			fmt.Fprintf(out, "%s\n    %s\n", colorBold.Sprint(tool.Name), colorDim.Sprint(tool.Description))
		}
	},
}
