package community

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawaz-dabbaghieh/gfaidx/internal/intern"
)

func TestAdoptSingletons(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	content := "H\tVN:Z:1.0\n" +
		"S\tn1\tACGT\n" +
		"S\tn2\tTTTT\n" +
		"S\tn3\tGGGG\n" + // n3 never appears in a Link — a singleton
		"L\tn1\t+\tn2\t+\t0M\n"
	require.NoError(t, os.WriteFile(gfaPath, []byte(content), 0o644))

	table := intern.New(0)
	n1, _ := table.InternNew([]byte("n1"))
	n2, _ := table.InternNew([]byte("n2"))
	partition := [][]uint32{{n1, n2}}

	out, err := AdoptSingletons(gfaPath, false, table, partition)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, []uint32{n1, n2}, out[0])
	require.Len(t, out[1], 1)

	n3, ok := table.Lookup([]byte("n3"))
	require.True(t, ok)
	assert.Equal(t, n3, out[1][0])
}

func TestAdoptSingletons_NoneToAdopt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gfaPath := filepath.Join(dir, "g.gfa")
	content := "S\tn1\tACGT\nS\tn2\tTTTT\nL\tn1\t+\tn2\t+\t0M\n"
	require.NoError(t, os.WriteFile(gfaPath, []byte(content), 0o644))

	table := intern.New(0)
	n1, _ := table.InternNew([]byte("n1"))
	n2, _ := table.InternNew([]byte("n2"))
	partition := [][]uint32{{n1, n2}}

	out, err := AdoptSingletons(gfaPath, false, table, partition)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
