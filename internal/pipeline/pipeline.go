// Package pipeline drives the eleven build stages end to end: from a
// raw GFA file to a community-chunked gzip container, its offset
// index, and a sorted node-hash index.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/chunk"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/community"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/csr"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/edgelist"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/nodeindex"
)

// ProgressCallback is called with a phase name and a completion
// fraction in [0, 1], the way the teacher's ingestion pipeline reports
// progress to the CLI.
type ProgressCallback func(phase string, progress float64)

// Options configures one index_gfa run.
type Options struct {
	GFAPath           string
	OutGzPath         string
	IdxPath           string
	NdxPath           string
	StripCR           bool
	TempBase          string
	KeepTmp           bool
	GzipLevel         int
	MaxOpenFiles      int
	SortOptions       edgelist.SortOptions
	Refinement        community.RefinementConfig
	SkipRefinement    bool
	CommunityStatsTSV string
	Progress          ProgressCallback
}

// Result summarizes a completed build, suitable for recording in the
// build registry.
type Result struct {
	NNodes         uint32
	NEdges         uint64
	NumCommunities int
	Levels         int
	Modularity     float64
	Duration       time.Duration
}

// Run executes stages 1–11 against Options, checking ctx between
// stages the way the teacher's RunPipeline threads a context.Context
// through its own phases even though this domain has nothing
// network- or timer-driven to cancel.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	report := opts.Progress
	if report == nil {
		report = func(string, float64) {}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tempBase := opts.TempBase
	if tempBase == "" {
		tempBase = filepath.Join(filepath.Dir(opts.OutGzPath), ".gfaidx-tmp")
	}
	bctx, err := buildctx.New(tempBase, opts.KeepTmp, false)
	if err != nil {
		return nil, err
	}
	defer func() { _ = bctx.Cleanup() }()

	report("Building edge list", 0.0)
	table, unsortedPath, err := edgelist.Build(bctx, opts.GFAPath, opts.StripCR)
	if err != nil {
		return nil, fmt.Errorf("building edge list: %w", err)
	}
	report("Building edge list", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Sorting edges", 0.0)
	sortedPath := bctx.Path("edges.sorted.txt")
	if err := edgelist.Sort(unsortedPath, sortedPath, opts.SortOptions); err != nil {
		return nil, fmt.Errorf("sorting edges: %w", err)
	}
	report("Sorting edges", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Building CSR graph", 0.0)
	csrPath, err := csr.Build(bctx, sortedPath, bctx.NNodes)
	if err != nil {
		return nil, fmt.Errorf("building CSR graph: %w", err)
	}
	g, err := csr.Open(csrPath)
	if err != nil {
		return nil, fmt.Errorf("opening CSR graph: %w", err)
	}
	defer func() { _ = g.Close() }()
	report("Building CSR graph", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Detecting communities", 0.0)
	detected := community.Detect(g)
	report("Detecting communities", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Adopting singletons", 0.0)
	partition, err := community.AdoptSingletons(opts.GFAPath, opts.StripCR, table, detected.Partition)
	if err != nil {
		return nil, fmt.Errorf("adopting singletons: %w", err)
	}
	bctx.NNodes = uint32(table.Len())
	report("Adopting singletons", 1.0)

	if !opts.SkipRefinement {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report("Refining oversized communities", 0.0)
		cfg := opts.Refinement
		if cfg == (community.RefinementConfig{}) {
			cfg = community.DefaultRefinementConfig()
		}
		partition, err = community.Refine(bctx, table, sortedPath, partition, opts.GFAPath, opts.StripCR, cfg)
		if err != nil {
			return nil, fmt.Errorf("refining communities: %w", err)
		}
		report("Refining oversized communities", 1.0)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idToComm := community.BuildIDToComm(partition, table.Len())

	if opts.CommunityStatsTSV != "" {
		report("Writing community stats", 0.0)
		stats, err := community.ComputeStats(opts.GFAPath, opts.StripCR, table, sortedPath, idToComm, len(partition))
		if err != nil {
			return nil, fmt.Errorf("computing community stats: %w", err)
		}
		if err := writeStatsTSV(opts.CommunityStatsTSV, stats); err != nil {
			return nil, err
		}
		report("Writing community stats", 1.0)
	}

	report("Splitting by community", 0.0)
	sp, err := chunk.NewSplitter(bctx.TempDir, len(partition), opts.MaxOpenFiles)
	if err != nil {
		return nil, fmt.Errorf("creating splitter: %w", err)
	}
	if err := chunk.Split(opts.GFAPath, opts.StripCR, table, idToComm, sp); err != nil {
		_ = sp.Close()
		return nil, fmt.Errorf("splitting by community: %w", err)
	}
	if err := sp.Close(); err != nil {
		return nil, fmt.Errorf("closing splitter: %w", err)
	}
	report("Splitting by community", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Packaging gzip container", 0.0)
	memberPaths := make([]string, len(partition)+1)
	for i := range memberPaths {
		memberPaths[i] = sp.Path(i)
	}
	gzipLevel := opts.GzipLevel
	if gzipLevel == 0 {
		gzipLevel = chunk.DefaultCompressionLevel
	}
	entries, err := chunk.Concatenate(opts.OutGzPath, memberPaths, gzipLevel)
	if err != nil {
		return nil, fmt.Errorf("packaging gzip container: %w", err)
	}
	if err := chunk.WriteIndex(opts.IdxPath, entries); err != nil {
		return nil, fmt.Errorf("writing offset index: %w", err)
	}
	report("Packaging gzip container", 1.0)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report("Writing node index", 0.0)
	if err := nodeindex.Build(opts.NdxPath, table, idToComm); err != nil {
		return nil, fmt.Errorf("writing node index: %w", err)
	}
	report("Writing node index", 1.0)

	return &Result{
		NNodes:         bctx.NNodes,
		NEdges:         bctx.NEdges,
		NumCommunities: len(partition),
		Levels:         detected.Levels,
		Modularity:     detected.Modularity,
		Duration:       time.Since(start),
	}, nil
}

func writeStatsTSV(path string, stats []community.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating community stats file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintln(w, "community_id\tnode_count\tseq_bp_total\tedge_count"); err != nil {
		return err
	}
	for c, s := range stats {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", c, s.NodeCount, s.SeqBPTotal, s.EdgeCount); err != nil {
			return fmt.Errorf("writing community stats file %s: %w", path, err)
		}
	}
	return w.Flush()
}
