package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/chunk"
	"github.com/fawaz-dabbaghieh/gfaidx/internal/nodeindex"
)

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	content := "H\tVN:Z:1.0\n" +
		"S\tn0\tA\nS\tn1\tA\nS\tn2\tA\nS\tn3\tA\nS\tn4\tA\nS\tn5\tA\nS\tn6\tA\n" +
		"L\tn0\t+\tn1\t+\t0M\nL\tn0\t+\tn2\t+\t0M\nL\tn1\t+\tn2\t+\t0M\n" +
		"L\tn3\t+\tn4\t+\t0M\nL\tn3\t+\tn5\t+\t0M\nL\tn4\t+\tn5\t+\t0M\n" +
		"L\tn2\t+\tn3\t+\t0M\n"
	require.NoError(t, os.WriteFile(gfaPath, []byte(content), 0o644))

	opts := Options{
		GFAPath:   gfaPath,
		OutGzPath: filepath.Join(dir, "out.gfa.gz"),
		IdxPath:   filepath.Join(dir, "out.idx"),
		NdxPath:   filepath.Join(dir, "out.ndx"),
	}

	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), result.NNodes)
	assert.True(t, result.NumCommunities >= 1)

	entries, err := chunk.ReadIndex(opts.IdxPath)
	require.NoError(t, err)
	assert.Len(t, entries, result.NumCommunities+1)

	idx, err := nodeindex.Open(opts.NdxPath)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()
	assert.Equal(t, 7, idx.Len())
}

func TestRun_WritesCommunityStatsTSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	require.NoError(t, os.WriteFile(gfaPath, []byte("S\tn0\tAA\nS\tn1\tTT\nL\tn0\t+\tn1\t+\t0M\n"), 0o644))

	statsPath := filepath.Join(dir, "stats.tsv")
	_, err := Run(context.Background(), Options{
		GFAPath:           gfaPath,
		OutGzPath:         filepath.Join(dir, "out.gfa.gz"),
		IdxPath:           filepath.Join(dir, "out.idx"),
		NdxPath:           filepath.Join(dir, "out.ndx"),
		CommunityStatsTSV: statsPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(statsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "community_id\tnode_count\tseq_bp_total\tedge_count")
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	require.NoError(t, os.WriteFile(gfaPath, []byte("S\tn0\tA\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{
		GFAPath:   gfaPath,
		OutGzPath: filepath.Join(dir, "out.gfa.gz"),
		IdxPath:   filepath.Join(dir, "out.idx"),
		NdxPath:   filepath.Join(dir, "out.ndx"),
	})
	assert.Error(t, err)
}
