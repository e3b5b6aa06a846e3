// Package retrieval serves the two queries the rest of the pipeline
// exists to answer: which community a node identifier belongs to, and
// what GFA lines make up a given community.
package retrieval

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/chunk"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/nodeindex"
)

// Store bundles the three artifacts a build produces that retrieval
// needs: the sorted hash index, the offset index, and the
// multi-member gzip container they both point into.
type Store struct {
	ndx     *nodeindex.Index
	entries []chunk.IndexEntry
	gzPath  string
}

// Open memory-maps the hash index and loads the (small) offset index
// into memory; the gzip container itself is opened fresh per Stream
// call, since a build may outlive any single retrieval session.
func Open(ndxPath, idxPath, gzPath string) (*Store, error) {
	ndx, err := nodeindex.Open(ndxPath)
	if err != nil {
		return nil, err
	}

	entries, err := chunk.ReadIndex(idxPath)
	if err != nil {
		_ = ndx.Close()
		return nil, err
	}

	return &Store{ndx: ndx, entries: entries, gzPath: gzPath}, nil
}

// Resolve returns the community id a node identifier belongs to.
func (s *Store) Resolve(nodeID string) (int32, bool) {
	return s.ndx.Resolve(nodeID)
}

// Stream locates communityID's member in the offset index, seeks to
// it in the gzip container, and inflates its lines one at a time to
// consume. consume returns whether to keep going; when it returns
// false, Stream stops reading and returns nil — an early stop is not
// an error.
func (s *Store) Stream(communityID int32, consume func(line []byte) bool) error {
	entry, ok := s.findEntry(communityID)
	if !ok {
		return fmt.Errorf("community %d not found in offset index", communityID)
	}
	if entry.Size == 0 {
		return nil
	}

	f, err := os.Open(s.gzPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.gzPath, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return fmt.Errorf("seeking %s to %d: %w", s.gzPath, entry.Offset, err)
	}

	gz, err := gzip.NewReader(io.LimitReader(f, int64(entry.Size)))
	if err != nil {
		return fmt.Errorf("initializing gzip reader for community %d: %w", communityID, err)
	}
	defer func() { _ = gz.Close() }()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	for sc.Scan() {
		if !consume(sc.Bytes()) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("inflating community %d: %w", communityID, err)
	}
	return nil
}

func (s *Store) findEntry(communityID int32) (chunk.IndexEntry, bool) {
	for _, e := range s.entries {
		if e.CommunityID == uint32(communityID) {
			return e, true
		}
	}
	return chunk.IndexEntry{}, false
}

// Close releases the hash index's memory map.
func (s *Store) Close() error {
	return s.ndx.Close()
}
