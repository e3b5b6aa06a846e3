// Package intern assigns dense uint32 identifiers to node-identifier
// strings in first-seen order, and never reassigns or reuses one once
// bound to a string.
package intern

import "fmt"

// ErrUnknownNode is returned when a caller looks up a node string that
// was never interned. Seeing this during splitting or per-community
// statistics is a consistency error: the map was built from the same input moments
// earlier.
var ErrUnknownNode = fmt.Errorf("node identifier not found in interning table")

// Table maps node-identifier strings to dense uint32 ids and back. It is
// not safe for concurrent use — the build pipeline is single threaded.
type Table struct {
	ids     map[string]uint32
	strings []string // indexed by id, appended by InternNew
}

// New creates an empty interning table, optionally sized for sizeHint
// distinct strings.
func New(sizeHint int) *Table {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Table{
		ids:     make(map[string]uint32, sizeHint),
		strings: make([]string, 0, sizeHint),
	}
}

// InternNew returns the id bound to s, allocating a fresh one in
// first-seen order if s has not been seen before. The second return
// value is true when a new id was allocated.
func (t *Table) InternNew(s []byte) (uint32, bool) {
	if id, ok := t.ids[string(s)]; ok {
		return id, false
	}
	id := uint32(len(t.strings))
	str := string(s) // one copy, owned by the table from here on
	t.ids[str] = id
	t.strings = append(t.strings, str)
	return id, true
}

// Lookup returns the id bound to s without allocating a new one.
func (t *Table) Lookup(s []byte) (uint32, bool) {
	id, ok := t.ids[string(s)]
	return id, ok
}

// Len returns the number of distinct strings interned so far — this is
// N_NODES at any point during the build.
func (t *Table) Len() int {
	return len(t.strings)
}

// String returns the string bound to id. It panics if id is out of
// range, since that indicates a programming error in the caller rather
// than a recoverable build-time condition.
func (t *Table) String(id uint32) string {
	return t.strings[id]
}

// Each calls fn once for every (string, id) pair, in id order.
func (t *Table) Each(fn func(s string, id uint32)) {
	for id, s := range t.strings {
		fn(s, uint32(id))
	}
}
