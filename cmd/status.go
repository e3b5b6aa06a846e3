package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/registry"
)

// StatusCmd prints the recorded stats for a single build.
type StatusCmd struct {
	OutGz string `arg:"" help:"Path to the gzip container to look up (the out_gz argument of the original index_gfa run)"`
}

// Run executes the status command.
func (c *StatusCmd) Run() error {
	absOutGz, err := filepath.Abs(c.OutGz)
	if err != nil {
		return err
	}

	r, err := registry.Open(registry.DefaultPath())
	if err != nil {
		return fmt.Errorf("opening build registry: %w", err)
	}
	defer func() { _ = r.Close() }()

	m, err := r.Get(absOutGz)
	if err != nil {
		return fmt.Errorf("no build recorded for %s; run 'gfaidx index_gfa' first", absOutGz)
	}

	fmt.Printf("Build status for %s\n", absOutGz)
	fmt.Printf("  Source:      %s\n", m.GFAPath)
	fmt.Printf("  Indexed at:  %s\n", m.IndexedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Duration:    %s\n", m.Duration.Round(time.Millisecond))
	fmt.Printf("  Nodes:       %d\n", m.NNodes)
	fmt.Printf("  Edges:       %d\n", m.NEdges)
	fmt.Printf("  Communities: %d\n", m.NumCommunities)
	fmt.Printf("  Levels:      %d\n", m.Levels)
	fmt.Printf("  Modularity:  %.4f\n", m.Modularity)
	fmt.Printf("  Gzip level:  %d\n", m.GzipLevel)
	if m.RecursiveChunking {
		fmt.Printf("  Recursive chunking: on (soft %d nodes / %d bp / %d edges, hard %d nodes / %d bp)\n",
			m.RecursiveMaxNodes, m.RecursiveMaxSeqBP, m.RecursiveMaxEdges,
			m.RecursiveHardMaxNodes, m.RecursiveHardMaxSeqBP)
	} else {
		fmt.Printf("  Recursive chunking: off\n")
	}
	return nil
}
