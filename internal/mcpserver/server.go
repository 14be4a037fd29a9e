// Copyright 2026 The Gwaskit Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gwaskit/gwaskit/internal/gwas"
)

// Options carries the resolved per-server configuration. There are no
// process-wide defaults; everything a handler needs travels through here.
type Options struct {
	// Client issues the upstream catalog requests. Nil means a client with
	// the official EBI endpoints and default timeout.
	Client *gwas.Client
	// MaxItemsInMemory is the default spill threshold for tools that do not
	// override it per call (0 means 5000).
	MaxItemsInMemory int
	// OutputDir is the default spill directory (empty means the system
	// temp dir).
	OutputDir string
}

// New creates an MCP server with the GWAS Catalog tools registered.
func New(version string, opts Options) *mcp.Server {
	if opts.Client == nil {
		opts.Client = gwas.NewClient(gwas.ClientOptions{})
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gwaskit",
		Title:   "Gwaskit GWAS Catalog tools",
		Version: version,
	}, nil)

	registerTools(server, &toolset{
		client:           opts.Client,
		maxItemsInMemory: opts.MaxItemsInMemory,
		outputDir:        opts.OutputDir,
	})
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, version string, opts Options, transport mcp.Transport) error {
	server := New(version, opts)
	return server.Run(ctx, transport)
}
