// Copyright 2026 The Gwaskit Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gwaskit/gwaskit/internal/config"
	"github.com/gwaskit/gwaskit/internal/gwas"
	"github.com/gwaskit/gwaskit/internal/mcpserver"
)

var configPath string

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running gwaskit as an MCP server, exposing the GWAS Catalog lookup, search, and ranking tools to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing the GWAS Catalog tools:
study, association, variant, and trait lookups; region and trait searches;
batch EFO queries; and p-value ranking.

Defaults (spill threshold, output directory, timeouts, base URLs) can be
overridden with a ` + config.FileName + ` file in the working directory or
via --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configPath
		if path == "" {
			path = config.FileName
		}
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", path, err)
		}

		opts := mcpserver.Options{
			Client: gwas.NewClient(gwas.ClientOptions{
				RESTBaseURL:         cfg.RESTBaseURL,
				SummaryStatsBaseURL: cfg.SummaryStatsBaseURL,
				Timeout:             time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
			}),
			MaxItemsInMemory: cfg.MaxItemsInMemory,
			OutputDir:        cfg.OutputDir,
		}
		return mcpserver.Run(cmd.Context(), Version, opts, &mcp.StdioTransport{})
	},
}

func init() {
	mcpServeCmd.Flags().StringVar(&configPath, "config", "", "path to a gwaskit config file (default "+config.FileName+" in the working directory)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}
