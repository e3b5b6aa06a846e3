// Package registry keeps a BadgerDB-backed history of past builds —
// which GFA was indexed, when, into what output directory, and with
// what summary statistics — so the "list" and "status" subcommands can
// answer without re-reading any build's artifacts.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const buildPrefix = "build:"

// Manifest records one build's summary.
type Manifest struct {
	GFAPath        string        `json:"gfa_path"`
	OutputDir      string        `json:"output_dir"`
	IndexedAt      time.Time     `json:"indexed_at"`
	NNodes         uint32        `json:"n_nodes"`
	NEdges         uint64        `json:"n_edges"`
	NumCommunities int           `json:"num_communities"`
	Levels         int           `json:"levels"`
	Modularity     float64       `json:"modularity"`
	Duration       time.Duration `json:"duration"`
	GzipLevel      int           `json:"gzip_level"`

	// Recursive-chunking knobs used for this build (§4.7).
	RecursiveChunking     bool  `json:"recursive_chunking"`
	RecursiveMaxNodes     int64 `json:"recursive_max_nodes"`
	RecursiveMaxSeqBP     int64 `json:"recursive_max_seq_bp"`
	RecursiveMaxEdges     int64 `json:"recursive_max_edges"`
	RecursiveHardMaxNodes int64 `json:"recursive_hard_max_nodes"`
	RecursiveHardMaxSeqBP int64 `json:"recursive_hard_max_seq_bp"`
}

// Entry pairs a build id with its manifest.
type Entry struct {
	ID string
	Manifest
}

// Registry is a BadgerDB handle scoped to the build-history keyspace.
type Registry struct {
	db *badger.DB
}

// DefaultPath returns $HOME/.gfaidx/registry, the build history
// location the index_gfa, list and status commands use.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".gfaidx", "registry")
}

// Open opens (creating if absent) the BadgerDB database at path.
func Open(path string) (*Registry, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("creating build registry directory %s: %w", path, err)
	}

	opts := badger.DefaultOptions(path).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening build registry at %s: %w", path, err)
	}
	return &Registry{db: db}, nil
}

// Close releases the database handle.
func (r *Registry) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("closing build registry: %w", err)
	}
	return nil
}

// Put records a build's manifest under buildID, overwriting any prior
// entry with the same id.
func (r *Registry) Put(buildID string, m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest for %s: %w", buildID, err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(buildPrefix+buildID), data)
	})
}

// Get looks up a single build's manifest by id.
func (r *Registry) Get(buildID string) (Manifest, error) {
	var m Manifest
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(buildPrefix + buildID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &m)
		})
	})
	if err != nil {
		return Manifest{}, fmt.Errorf("looking up build %s: %w", buildID, err)
	}
	return m, nil
}

// List returns every recorded build, most recently indexed first.
func (r *Registry) List() ([]Entry, error) {
	var entries []Entry
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(buildPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(item.Key())[len(buildPrefix):]
			var m Manifest
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &m)
			}); err != nil {
				return fmt.Errorf("decoding manifest for %s: %w", id, err)
			}
			entries = append(entries, Entry{ID: id, Manifest: m})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing build registry: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].IndexedAt.After(entries[j].IndexedAt)
	})
	return entries, nil
}
