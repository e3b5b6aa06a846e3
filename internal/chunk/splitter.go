// Package chunk re-reads the GFA once community ids are known, routes
// every record into a per-community temp file through a
// bounded-descriptor cache, then compresses those temp files into one
// multi-member gzip output with a companion offset index.
package chunk

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/gfaio"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

// DefaultMaxOpenFiles bounds the splitter's resident file-descriptor
// count, independent of how many communities exist.
const DefaultMaxOpenFiles = 256

// Splitter routes GFA lines into per-community temp files via a
// least-recently-used cache of open handles, so that a build with many
// thousands of communities never exceeds the process's descriptor
// quota. Paths are precomputed, and any pre-existing file at each path
// is removed before the first write, guaranteeing append-only output.
type Splitter struct {
	paths []string
	cache *lru.Cache[int, *os.File]
}

// NewSplitter creates the K+1 community part paths (community 0..K-1
// plus the cross-community bridge sink at id K) under dir, and an LRU
// cache of at most maxOpen simultaneously open handles.
func NewSplitter(dir string, numCommunities int, maxOpen int) (*Splitter, error) {
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenFiles
	}

	paths := make([]string, numCommunities+1)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("community-%d.gfa", i))
		_ = os.Remove(paths[i])
	}

	s := &Splitter{paths: paths}

	cache, err := lru.NewWithEvict[int, *os.File](maxOpen, func(_ int, f *os.File) {
		_ = f.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("creating splitter handle cache: %w", err)
	}
	s.cache = cache

	return s, nil
}

// BridgeID returns the cross-community sink's community id, K.
func (s *Splitter) BridgeID() int {
	return len(s.paths) - 1
}

// Path returns the precomputed temp-file path for community id cid.
func (s *Splitter) Path(cid int) string {
	return s.paths[cid]
}

// WriteLine appends line plus a trailing newline to community cid's
// temp file, opening it (evicting the least-recently-used handle if
// the cache is full) if it is not already open.
func (s *Splitter) WriteLine(cid int, line []byte) error {
	f, ok := s.cache.Get(cid)
	if !ok {
		var err error
		f, err = os.OpenFile(s.paths[cid], os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening community part file %s: %w", s.paths[cid], err)
		}
		s.cache.Add(cid, f)
	}
	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("writing to %s: %w", s.paths[cid], err)
	}
	if _, err := f.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("writing to %s: %w", s.paths[cid], err)
	}
	return nil
}

// Close flushes and closes every handle still resident in the cache.
func (s *Splitter) Close() error {
	var first error
	for _, cid := range s.cache.Keys() {
		if f, ok := s.cache.Peek(cid); ok {
			if err := f.Close(); err != nil && first == nil {
				first = fmt.Errorf("closing community part file %s: %w", s.paths[cid], err)
			}
		}
	}
	s.cache.Purge()
	return first
}

// Split re-reads gfaPath and routes every record to its community's
// temp file per §4.8's routing rules: Header records go to community
// 0; a Segment with interned id u goes to idToComm[u]; a Link between
// u and v goes to their shared community if idToComm[u] ==
// idToComm[v], otherwise to the bridge sink. Unrecognised record types
// are forwarded to community 0.
func Split(gfaPath string, stripCR bool, table *intern.Table, idToComm []int32, sp *Splitter) error {
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

		switch rt {
		case gfaio.Header:
			err = sp.WriteLine(0, line)
		case gfaio.Segment:
			err = routeSegment(line, table, idToComm, sp)
		case gfaio.Link:
			err = routeLink(line, table, idToComm, sp)
		default:
			err = sp.WriteLine(0, line)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func routeSegment(line []byte, table *intern.Table, idToComm []int32, sp *Splitter) error {
	fields, err := gfaio.ParseSegment(line)
	if err != nil {
		return err
	}
	id, ok := table.Lookup(fields.ID)
	if !ok {
		return fmt.Errorf("%w: %q", intern.ErrUnknownNode, fields.ID)
	}
	return sp.WriteLine(int(idToComm[id]), line)
}

func routeLink(line []byte, table *intern.Table, idToComm []int32, sp *Splitter) error {
	fields, err := gfaio.ParseLink(line)
	if err != nil {
		return err
	}
	u, ok := table.Lookup(fields.From)
	if !ok {
		return fmt.Errorf("%w: %q", intern.ErrUnknownNode, fields.From)
	}
	v, ok := table.Lookup(fields.To)
	if !ok {
		return fmt.Errorf("%w: %q", intern.ErrUnknownNode, fields.To)
	}
	cu, cv := idToComm[u], idToComm[v]
	if cu == cv {
		return sp.WriteLine(int(cu), line)
	}
	return sp.WriteLine(sp.BridgeID(), line)
}
