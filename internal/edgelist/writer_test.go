package edgelist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/buildctx"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	a, b := Canonical(3, 1)
	assert.Equal(t, uint32(1), a)
	assert.Equal(t, uint32(3), b)

	a, b = Canonical(5, 5)
	assert.Equal(t, uint32(5), a)
	assert.Equal(t, uint32(5), b)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	content := "H\tVN:Z:1.0\n" +
		"S\tn1\tACGT\n" +
		"S\tn2\tTTTT\n" +
		"S\tn3\tGGGG\n" +
		"L\tn1\t+\tn2\t+\t0M\n" +
		"L\tn2\t+\tn3\t+\t0M\n" +
		"L\tn2\t+\tn1\t+\t0M\n" // reverse of first link; should canonicalize identically
	require.NoError(t, os.WriteFile(gfaPath, []byte(content), 0o644))

	ctx, err := buildctx.New(dir, false, false)
	require.NoError(t, err)
	defer func() { _ = ctx.Cleanup() }()

	table, edgeListPath, err := Build(ctx, gfaPath, false)
	require.NoError(t, err)

	assert.Equal(t, 3, table.Len())
	assert.Equal(t, uint32(3), ctx.NNodes)
	assert.Equal(t, uint64(3), ctx.NEdges)

	raw, err := os.ReadFile(edgeListPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n")

	n1, ok := table.Lookup([]byte("n1"))
	require.True(t, ok)
	n2, ok := table.Lookup([]byte("n2"))
	require.True(t, ok)
	assert.NotEqual(t, n1, n2)
}

func TestBuild_IgnoresNonLinkRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	content := "H\tVN:Z:1.0\nS\tn1\tACGT\nP\tp1\tn1+\t*\n"
	require.NoError(t, os.WriteFile(gfaPath, []byte(content), 0o644))

	ctx, err := buildctx.New(dir, false, false)
	require.NoError(t, err)
	defer func() { _ = ctx.Cleanup() }()

	table, _, err := Build(ctx, gfaPath, false)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
