// Package csr builds and serves the compressed-sparse-row binary
// adjacency representation: a 4-byte node count, an array of 8-byte
// cumulative degrees, and a flat array of 4-byte neighbour ids, built
// in two passes over a sorted, deduplicated edge list and served back
// through a read-only memory map.
package csr

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

const (
	headerLen   = 4 // node count
	degreeLen   = 8 // one cumulative-degree entry
	neighborLen = 4 // one neighbour id
)

// Graph is a read-only view over a CSR file, backed by a memory map.
// Node i's neighbours occupy data[D[i-1]:D[i]) in the flat neighbour
// array, with D[-1] == 0.
type Graph struct {
	f    *os.File
	data mmap.MMap
	n    uint32
}

// Open memory-maps path for reading.
func Open(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSR file %s: %w", path, err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mapping CSR file %s: %w", path, err)
	}

	if len(data) < headerLen {
		_ = data.Unmap()
		_ = f.Close()
		return nil, fmt.Errorf("CSR file %s is shorter than its header", path)
	}

	n := binary.LittleEndian.Uint32(data[0:headerLen])

	return &Graph{f: f, data: data, n: n}, nil
}

// N returns the node count.
func (g *Graph) N() uint32 {
	return g.n
}

// cumDegree returns D[i], the cumulative degree through node i
// inclusive, or 0 for i == -1 (expressed here as not calling this
// helper at all — see NeighborRange).
func (g *Graph) cumDegree(i uint32) uint64 {
	off := headerLen + int(i)*degreeLen
	return binary.LittleEndian.Uint64(g.data[off : off+degreeLen])
}

// NeighborRange returns the half-open [lo, hi) range, in units of
// neighbour-array entries, occupied by node i's adjacency list.
func (g *Graph) NeighborRange(i uint32) (lo, hi uint64) {
	if i > 0 {
		lo = g.cumDegree(i - 1)
	}
	hi = g.cumDegree(i)
	return lo, hi
}

// Degree returns the number of adjacency entries for node i — for a
// node with no self-loop this equals its undirected degree; a
// self-loop contributes exactly one entry per the asymmetric
// self-loop convention described in SPEC_FULL.md §4.4.
func (g *Graph) Degree(i uint32) uint32 {
	lo, hi := g.NeighborRange(i)
	return uint32(hi - lo)
}

func (g *Graph) neighborsOffset() int {
	return headerLen + int(g.n)*degreeLen
}

// NeighborAt returns the neighbour id stored at flat index idx of the
// neighbour array.
func (g *Graph) NeighborAt(idx uint64) uint32 {
	off := g.neighborsOffset() + int(idx)*neighborLen
	return binary.LittleEndian.Uint32(g.data[off : off+neighborLen])
}

// Neighbors materializes node i's adjacency list as a fresh slice.
// Callers iterating many nodes in a hot loop should prefer
// NeighborRange plus NeighborAt to avoid the allocation.
func (g *Graph) Neighbors(i uint32) []uint32 {
	lo, hi := g.NeighborRange(i)
	out := make([]uint32, 0, hi-lo)
	for idx := lo; idx < hi; idx++ {
		out = append(out, g.NeighborAt(idx))
	}
	return out
}

// Each calls fn once per neighbour of node i, in on-disk order,
// without allocating.
func (g *Graph) Each(i uint32, fn func(neighbor uint32)) {
	lo, hi := g.NeighborRange(i)
	for idx := lo; idx < hi; idx++ {
		fn(g.NeighborAt(idx))
	}
}

// TotalEdgeEntries returns D[N-1], the length of the flat neighbour
// array — 2*(non-self-loop edges) + (self-loops).
func (g *Graph) TotalEdgeEntries() uint64 {
	if g.n == 0 {
		return 0
	}
	return g.cumDegree(g.n - 1)
}

// Close unmaps the file and releases its descriptor.
func (g *Graph) Close() error {
	if err := g.data.Unmap(); err != nil {
		return fmt.Errorf("unmapping CSR file: %w", err)
	}
	if err := g.f.Close(); err != nil {
		return fmt.Errorf("closing CSR file: %w", err)
	}
	return nil
}
