package community

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/csr"
)

func openGraph(t *testing.T, edges string, n uint32) *csr.Graph {
	t.Helper()

	dir := t.TempDir()
	edgesPath := filepath.Join(dir, "edges.sorted.txt")
	require.NoError(t, os.WriteFile(edgesPath, []byte(edges), 0o644))

	ctx, err := buildctx.New(dir, false, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctx.Cleanup() })

	path, err := csr.Build(ctx, edgesPath, n)
	require.NoError(t, err)

	g, err := csr.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func membershipOf(result *Result, node uint32) int {
	for c, members := range result.Partition {
		for _, m := range members {
			if m == node {
				return c
			}
		}
	}
	return -1
}

func TestDetect_TwoTriangles(t *testing.T) {
	t.Parallel()

	g := openGraph(t, "0 1\n0 2\n1 2\n3 4\n3 5\n4 5\n2 3\n", 6)
	result := Detect(g)

	require.NotEmpty(t, result.Partition)

	c0 := membershipOf(result, 0)
	c3 := membershipOf(result, 3)
	assert.NotEqual(t, -1, c0)
	assert.NotEqual(t, -1, c3)
	assert.Equal(t, c0, membershipOf(result, 1))
	assert.Equal(t, c0, membershipOf(result, 2))
	assert.Equal(t, c3, membershipOf(result, 4))
	assert.Equal(t, c3, membershipOf(result, 5))
	assert.NotEqual(t, c0, c3)
}

func TestDetect_EmptyGraph(t *testing.T) {
	t.Parallel()

	g := openGraph(t, "", 0)
	result := Detect(g)
	assert.Empty(t, result.Partition)
}

func TestDetect_DisconnectedPairs(t *testing.T) {
	t.Parallel()

	// Two disconnected components, {0,1} and {2,3}, with no edge between
	// them: every one of the 4 nodes must still land in some community.
	g := openGraph(t, "0 1\n2 3\n", 4)
	result := Detect(g)

	total := 0
	for _, members := range result.Partition {
		total += len(members)
	}
	assert.Equal(t, 4, total)
}

func TestDetect_AllNodesAccountedFor(t *testing.T) {
	t.Parallel()

	g := openGraph(t, "0 1\n1 2\n2 3\n3 4\n4 0\n", 5)
	result := Detect(g)

	seen := make(map[uint32]bool)
	for _, members := range result.Partition {
		for _, m := range members {
			assert.False(t, seen[m], "node %d appears in more than one community", m)
			seen[m] = true
		}
	}
	assert.Len(t, seen, 5)
}
