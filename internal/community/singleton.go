package community

import (
	"fmt"
	"io"

	"github.com/RoaringBitmap/roaring"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/gfaio"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

// AdoptSingletons re-reads gfaPath for Segment records whose node
// identifier was never assigned to any community — either because it
// was never interned (no Link ever referenced it) or, as a defensive
// fallback, because it was interned but somehow fell out of every
// detected community — and appends them as one additional community
// at the end of partition. A roaring.Bitmap of already-assigned
// interned ids makes that membership check cheap even when partition
// spans millions of nodes.
func AdoptSingletons(gfaPath string, stripCR bool, table *intern.Table, partition [][]uint32) ([][]uint32, error) {
	assigned := roaring.New()
	for _, members := range partition {
		for _, m := range members {
			assigned.Add(m)
		}
	}

	r, err := gfaio.Open(gfaPath, stripCR)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var singletons []uint32

	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", gfaPath, err)
		}
		if len(line) == 0 {
			continue
		}

		rt, err := gfaio.TypeOf(line)
		if err != nil {
			return nil, err
		}
		if rt != gfaio.Segment {
			continue
		}

		fields, err := gfaio.ParseSegment(line)
		if err != nil {
			return nil, err
		}

		id, ok := table.Lookup(fields.ID)
		if ok {
			if assigned.Contains(id) {
				continue
			}
		} else {
			id, _ = table.InternNew(fields.ID)
		}
		singletons = append(singletons, id)
		assigned.Add(id)
	}

	if len(singletons) == 0 {
		return partition, nil
	}
	return append(partition, singletons), nil
}
