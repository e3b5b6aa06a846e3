package csr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
)

func buildGraph(t *testing.T, edges string, n uint32) *Graph {
	t.Helper()

	dir := t.TempDir()
	edgesPath := filepath.Join(dir, "edges.sorted.txt")
	require.NoError(t, os.WriteFile(edgesPath, []byte(edges), 0o644))

	ctx, err := buildctx.New(dir, false, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Cleanup() })

	path, err := Build(ctx, edgesPath, n)
	require.NoError(t, err)

	g, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestBuild_SimpleTriangle(t *testing.T) {
	t.Parallel()

	// Triangle 0-1-2.
	g := buildGraph(t, "0 1\n0 2\n1 2\n", 3)

	assert.Equal(t, uint32(3), g.N())
	assert.Equal(t, uint64(6), g.TotalEdgeEntries())

	assert.ElementsMatch(t, []uint32{1, 2}, g.Neighbors(0))
	assert.ElementsMatch(t, []uint32{0, 2}, g.Neighbors(1))
	assert.ElementsMatch(t, []uint32{0, 1}, g.Neighbors(2))
}

func TestBuild_SelfLoop(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "0 0\n0 1\n", 2)

	assert.Equal(t, uint32(2), g.Degree(0)) // one for the self-loop, one for the edge to 1
	assert.Equal(t, []uint32{0, 1}, g.Neighbors(0))
	assert.Equal(t, []uint32{0}, g.Neighbors(1))
}

func TestBuild_IsolatedNode(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "0 1\n", 3)

	assert.Equal(t, uint32(0), g.Degree(2))
	assert.Empty(t, g.Neighbors(2))
}

func TestBuild_OutOfRangeEndpoint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	edgesPath := filepath.Join(dir, "edges.sorted.txt")
	require.NoError(t, os.WriteFile(edgesPath, []byte("0 5\n"), 0o644))

	ctx, err := buildctx.New(dir, false, false)
	require.NoError(t, err)
	defer func() { _ = ctx.Cleanup() }()

	_, err = Build(ctx, edgesPath, 3)
	assert.Error(t, err)
}

func TestEach(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "0 1\n0 2\n", 3)

	var seen []uint32
	g.Each(0, func(neighbor uint32) {
		seen = append(seen, neighbor)
	})
	assert.ElementsMatch(t, []uint32{1, 2}, seen)
}
