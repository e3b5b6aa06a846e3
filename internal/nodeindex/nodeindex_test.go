package nodeindex

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

func TestBuildAndResolve(t *testing.T) {
	t.Parallel()

	table := intern.New(0)
	n0, _ := table.InternNew([]byte("n0"))
	n1, _ := table.InternNew([]byte("n1"))
	n2, _ := table.InternNew([]byte("n2"))

	idToComm := make([]int32, 3)
	idToComm[n0] = 5
	idToComm[n1] = 7
	idToComm[n2] = -1 // absent from every community, e.g. pruned

	path := filepath.Join(t.TempDir(), "nodes.ndx")
	require.NoError(t, Build(path, table, idToComm))

	idx, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	assert.Equal(t, 2, idx.Len())

	c, ok := idx.Resolve("n0")
	require.True(t, ok)
	assert.Equal(t, int32(5), c)

	c, ok = idx.Resolve("n1")
	require.True(t, ok)
	assert.Equal(t, int32(7), c)

	_, ok = idx.Resolve("n2")
	assert.False(t, ok)

	_, ok = idx.Resolve("never-interned")
	assert.False(t, ok)
}

func TestResolve_SortedByHash(t *testing.T) {
	t.Parallel()

	table := intern.New(0)
	names := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	idToComm := make([]int32, len(names))
	for i, n := range names {
		id, _ := table.InternNew([]byte(n))
		idToComm[id] = int32(i)
	}

	path := filepath.Join(t.TempDir(), "nodes.ndx")
	require.NoError(t, Build(path, table, idToComm))

	idx, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	for i := 1; i < idx.Len(); i++ {
		assert.LessOrEqual(t, idx.hashAt(i-1), idx.hashAt(i))
	}
}

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Hash("same-string"), Hash("same-string"))
	assert.NotEqual(t, Hash("a"), Hash("b"))
}
