package cmd

import (
	"fmt"
	"os"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/retrieval"
)

// GetChunkCmd streams one community's lines from a built archive.
type GetChunkCmd struct {
	InGz string `arg:"" help:"Path to the gzip container produced by index_gfa"`

	Index       string `help:"Path to the offset index (default: <in_gz>.idx)"`
	NodeIndex   string `help:"Path to the node hash index (default: <in_gz>.ndx)"`
	CommunityID *int64 `name:"community_id" help:"Community id to stream"`
	NodeID      string `name:"node_id" help:"Node identifier whose community to stream; takes precedence over --community_id"`
}

// Run executes the get_chunk command.
func (c *GetChunkCmd) Run() error {
	if c.NodeID == "" && c.CommunityID == nil {
		return fmt.Errorf("exactly one of --community_id or --node_id must be supplied")
	}

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

	var communityID int32
	if c.CommunityID != nil {
		communityID = int32(*c.CommunityID)
	}
	if c.NodeID != "" {
		resolved, ok := store.Resolve(c.NodeID)
		if !ok {
			return fmt.Errorf("node %q was not found in the index", c.NodeID)
		}
		communityID = resolved
	}

	out := os.Stdout
	err = store.Stream(communityID, func(line []byte) bool {
		_, _ = out.Write(line)
		_, _ = out.Write([]byte{'\n'})
		return true
	})
	if err != nil {
		return fmt.Errorf("streaming community %d: %w", communityID, err)
	}
	return nil
}
