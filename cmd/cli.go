// Package cmd provides CLI command implementations for gfaidx.
package cmd

import (
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage marks an error as a command-line usage mistake rather than
// a build or retrieval failure, so main can map it to exit code 2 per
// the command surface's contract.
var ErrUsage = errors.New("usage error")

// CLI is the top-level command tree.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	IndexGFA IndexGFACmd `cmd:"" name:"index_gfa" help:"Index a GFA file into a community-chunked archive"`
	GetChunk GetChunkCmd `cmd:"" name:"get_chunk" help:"Retrieve a community's lines from a built archive"`
	List     ListCmd     `cmd:"" help:"List previously completed builds"`
	Status   StatusCmd   `cmd:"" help:"Show recorded stats for a build"`
	MCP      MCPCmd      `cmd:"" help:"Start the MCP server (stdio transport) over a built archive"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("gfaidx"),
		kong.Description("Pangenome GFA community chunking and retrieval"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	return kongCtx.Run()
}
