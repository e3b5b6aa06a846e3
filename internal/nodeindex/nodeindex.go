// Package nodeindex writes and serves the sorted FNV-1a-64 hash index
// that resolves a node identifier string to its community id without
// needing the in-memory interning table to be present — the index is
// self-contained and mmap-able.
package nodeindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

// RecordSize is the on-disk size of one ⟨hash, community_id⟩ record:
// an 8-byte little-endian hash followed by a 4-byte little-endian
// community id, no padding.
const RecordSize = 12

// ErrHashCollision is returned when Build finds two distinct node
// strings that hash to the same 64-bit FNV-1a value. See DESIGN.md for
// the collision policy this implementation chose.
var ErrHashCollision = errors.New("nodeindex: distinct node strings produced the same hash")

// Hash returns the 64-bit FNV-1a hash of a node identifier string.
func Hash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

type record struct {
	hash uint64
	comm int32
}

// Build computes one record per interned string in table, sorts them
// ascending by hash, and writes the resulting fixed-record binary file
// to path. idToComm[i] gives the community id for interned id i; an
// entry with no community (idToComm[i] < 0) is skipped.
//
// Build rejects the build outright on a hash collision between two
// distinct node strings, rather than silently letting one shadow the
// other at lookup time.
func Build(path string, table *intern.Table, idToComm []int32) error {
	records := make([]record, 0, table.Len())
	seen := make(map[uint64]string, table.Len())

	var buildErr error
	table.Each(func(s string, id uint32) {
		if buildErr != nil {
			return
		}
		if int(id) >= len(idToComm) || idToComm[id] < 0 {
			return
		}
		h := Hash(s)
		if prior, ok := seen[h]; ok && prior != s {
			buildErr = fmt.Errorf("%w: %q and %q both hash to %d", ErrHashCollision, prior, s, h)
			return
		}
		seen[h] = s
		records = append(records, record{hash: h, comm: idToComm[id]})
	})
	if buildErr != nil {
		return buildErr
	}

	sort.Slice(records, func(i, j int) bool { return records[i].hash < records[j].hash })

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating node index %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, RecordSize)
	for _, r := range records {
		binary.LittleEndian.PutUint64(buf[0:8], r.hash)
		binary.LittleEndian.PutUint32(buf[8:12], uint32(r.comm))
		if _, err := f.Write(buf); err != nil {
			return fmt.Errorf("writing node index %s: %w", path, err)
		}
	}

	return nil
}

// Index is a read-only, memory-mapped view over a sorted hash-index
// file, supporting binary search by hash.
type Index struct {
	f    *os.File
	data mmap.MMap
	n    int
}

// Open memory-maps the index file at path.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening node index %s: %w", path, err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("mapping node index %s: %w", path, err)
	}

	if len(data)%RecordSize != 0 {
		_ = data.Unmap()
		_ = f.Close()
		return nil, fmt.Errorf("node index %s has a length not a multiple of %d", path, RecordSize)
	}

	return &Index{f: f, data: data, n: len(data) / RecordSize}, nil
}

// Len returns the number of records.
func (idx *Index) Len() int {
	return idx.n
}

func (idx *Index) hashAt(i int) uint64 {
	off := i * RecordSize
	return binary.LittleEndian.Uint64(idx.data[off : off+8])
}

func (idx *Index) commAt(i int) int32 {
	off := i * RecordSize
	return int32(binary.LittleEndian.Uint32(idx.data[off+8 : off+12]))
}

// Resolve looks up a node identifier string's community id by binary
// searching for its FNV-1a-64 hash.
func (idx *Index) Resolve(nodeID string) (int32, bool) {
	return idx.ResolveHash(Hash(nodeID))
}

// ResolveHash looks up a community id directly by a precomputed hash.
func (idx *Index) ResolveHash(h uint64) (int32, bool) {
	lo, hi := 0, idx.n
	for lo < hi {
		mid := (lo + hi) / 2
		if idx.hashAt(mid) < h {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < idx.n && idx.hashAt(lo) == h {
		return idx.commAt(lo), true
	}
	return 0, false
}

// Close unmaps the file and releases its descriptor.
func (idx *Index) Close() error {
	if err := idx.data.Unmap(); err != nil {
		return fmt.Errorf("unmapping node index: %w", err)
	}
	return idx.f.Close()
}
