package csr

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/edgelist"
)

// Build reads the sorted, deduplicated edge list at sortedEdgesPath
// (one "u v\n" per line, u <= v) and produces a CSR binary file under
// ctx's temp directory, returning its path.
//
// The file is written in the two passes the format requires: the
// first accumulates degrees and turns them into the cumulative-degree
// array; the second walks the edge list again, writing each endpoint
// into the other's adjacency slice via a per-node write cursor.
func Build(ctx *buildctx.Context, sortedEdgesPath string, n uint32) (string, error) {
	degree, err := firstPass(sortedEdgesPath, n)
	if err != nil {
		return "", err
	}

	// Turn degree counts into the cumulative-degree array D in place.
	var total uint64
	for i := range degree {
		total += degree[i]
		degree[i] = total
	}

	outPath := ctx.Path("graph.csr")
	size := int64(headerLen) + int64(n)*degreeLen + int64(total)*neighborLen

	f, err := os.OpenFile(outPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating CSR file %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := f.Truncate(size); err != nil {
		return "", fmt.Errorf("sizing CSR file %s to %d bytes: %w", outPath, size, err)
	}

	if size == 0 {
		return outPath, nil
	}

	data, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return "", fmt.Errorf("mapping CSR file %s: %w", outPath, err)
	}
	defer func() { _ = data.Unmap() }()

	binary.LittleEndian.PutUint32(data[0:headerLen], n)
	for i, d := range degree {
		off := headerLen + i*degreeLen
		binary.LittleEndian.PutUint64(data[off:off+degreeLen], d)
	}

	cursor := make([]uint64, n)
	var prev uint64
	for i, d := range degree {
		cursor[i] = prev
		prev = d
	}

	neighborsOff := headerLen + int(n)*degreeLen
	writeNeighbor := func(slot uint64, id uint32) {
		off := neighborsOff + int(slot)*neighborLen
		binary.LittleEndian.PutUint32(data[off:off+neighborLen], id)
	}

	if err := edgelist.ScanPairs(sortedEdgesPath, func(u, v uint32) error {
		if u >= n || v >= n {
			return fmt.Errorf("edge (%d, %d) has an endpoint outside [0, %d)", u, v, n)
		}
		writeNeighbor(cursor[u], v)
		cursor[u]++
		if u != v {
			writeNeighbor(cursor[v], u)
			cursor[v]++
		}
		return nil
	}); err != nil {
		return "", err
	}

	if err := data.Flush(); err != nil {
		return "", fmt.Errorf("flushing CSR file %s: %w", outPath, err)
	}

	return outPath, nil
}

func firstPass(sortedEdgesPath string, n uint32) ([]uint64, error) {
	degree := make([]uint64, n)
	err := edgelist.ScanPairs(sortedEdgesPath, func(u, v uint32) error {
		if u >= n || v >= n {
			return fmt.Errorf("edge (%d, %d) has an endpoint outside [0, %d)", u, v, n)
		}
		degree[u]++
		if u != v {
			degree[v]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return degree, nil
}
