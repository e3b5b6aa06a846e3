package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	r, err := Open(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	want := Manifest{
		GFAPath:        "/data/pangenome.gfa",
		OutputDir:      "/data/out",
		IndexedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		NNodes:         1000,
		NEdges:         2500,
		NumCommunities: 7,
		Levels:         3,
		Modularity:     0.42,
	}
	require.NoError(t, r.Put("build-1", want))

	got, err := r.Get("build-1")
	require.NoError(t, err)
	assert.Equal(t, want.GFAPath, got.GFAPath)
	assert.Equal(t, want.NNodes, got.NNodes)
	assert.Equal(t, want.NumCommunities, got.NumCommunities)
	assert.True(t, want.IndexedAt.Equal(got.IndexedAt))
}

func TestGet_Missing(t *testing.T) {
	t.Parallel()

	r, err := Open(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	_, err = r.Get("never-built")
	assert.Error(t, err)
}

func TestList_MostRecentFirst(t *testing.T) {
	t.Parallel()

	r, err := Open(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Put("older", Manifest{GFAPath: "a.gfa", IndexedAt: base}))
	require.NoError(t, r.Put("newer", Manifest{GFAPath: "b.gfa", IndexedAt: base.Add(24 * time.Hour)}))

	entries, err := r.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "newer", entries[0].ID)
	assert.Equal(t, "older", entries[1].ID)
}

func TestPut_OverwritesExisting(t *testing.T) {
	t.Parallel()

	r, err := Open(filepath.Join(t.TempDir(), "registry"))
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	require.NoError(t, r.Put("build-1", Manifest{NNodes: 1}))
	require.NoError(t, r.Put("build-1", Manifest{NNodes: 2}))

	entries, err := r.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, uint32(2), entries[0].NNodes)
}

func TestDefaultPath_EndsInRegistry(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "registry", filepath.Base(DefaultPath()))
}
