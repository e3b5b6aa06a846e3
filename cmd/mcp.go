package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/mcpserver"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/retrieval"
)

// MCPCmd starts the MCP server over an already-built archive.
type MCPCmd struct {
	InGz      string `arg:"" help:"Path to the gzip container produced by index_gfa"`
	Index     string `help:"Path to the offset index (default: <in_gz>.idx)"`
	NodeIndex string `help:"Path to the node hash index (default: <in_gz>.ndx)"`
}

// Run executes the mcp command.
func (c *MCPCmd) Run() error {
	idxPath := c.Index
	if idxPath == "" {
		idxPath = c.InGz + ".idx"
	}
	ndxPath := c.NodeIndex
	if ndxPath == "" {
		ndxPath = c.InGz + ".ndx"
	}

	store, err := retrieval.Open(ndxPath, idxPath, c.InGz)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", c.InGz, err)
	}
	defer func() { _ = store.Close() }()

	server := mcpserver.NewServer(store)

	// No output to stderr - the MCP server uses stdio for JSON-RPC only.
	return server.Run(context.Background(), os.Stdin, os.Stdout)
}
