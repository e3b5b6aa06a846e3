package community

import (
	"fmt"
	"io"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/edgelist"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/gfaio"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

// Stats is the per-community triple the refiner uses to decide whether
// a community is oversized.
type Stats struct {
	NodeCount  int
	SeqBPTotal int64
	EdgeCount  int64
}

// ComputeStats derives per-community statistics for a partition:
// node_count (already known from the partition itself), seq_bp_total
// (summed from a GFA scan of Segment records), and edge_count (summed
// from the sorted global edge list, counting only intra-community
// edges).
func ComputeStats(gfaPath string, stripCR bool, table *intern.Table, sortedEdgesPath string, idToComm []int32, numCommunities int) ([]Stats, error) {
	stats := make([]Stats, numCommunities)

	for c, count := range nodeCounts(idToComm, numCommunities) {
		stats[c].NodeCount = count
	}

	if err := accumulateSeqBP(gfaPath, stripCR, table, idToComm, stats); err != nil {
		return nil, err
	}

	if err := accumulateEdgeCounts(sortedEdgesPath, idToComm, stats); err != nil {
		return nil, err
	}

	return stats, nil
}

func nodeCounts(idToComm []int32, numCommunities int) []int {
	counts := make([]int, numCommunities)
	for _, c := range idToComm {
		if c >= 0 {
			counts[c]++
		}
	}
	return counts
}

func accumulateSeqBP(gfaPath string, stripCR bool, table *intern.Table, idToComm []int32, stats []Stats) error {
	r, err := gfaio.Open(gfaPath, stripCR)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", gfaPath, err)
		}
		if len(line) == 0 {
			continue
		}

		rt, err := gfaio.TypeOf(line)
		if err != nil {
			return err
		}
		if rt != gfaio.Segment {
			continue
		}

		fields, err := gfaio.ParseSegment(line)
		if err != nil {
			return err
		}

		id, ok := table.Lookup(fields.ID)
		if !ok {
			return fmt.Errorf("%w: %q", intern.ErrUnknownNode, fields.ID)
		}
		c := idToComm[id]
		if c < 0 {
			continue
		}
		stats[c].SeqBPTotal += int64(len(fields.Sequence))
	}

	return nil
}

func accumulateEdgeCounts(sortedEdgesPath string, idToComm []int32, stats []Stats) error {
	return edgelist.ScanPairs(sortedEdgesPath, func(u, v uint32) error {
		cu, cv := idToComm[u], idToComm[v]
		if cu == cv && cu >= 0 {
			stats[cu].EdgeCount++
		}
		return nil
	})
}
