package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funkokeeper/internal/infrastructure/kv"
	"funkokeeper/internal/infrastructure/kv/kvtest"
)

func TestStore(t *testing.T) {
	kvtest.Run(t, func(t *testing.T) kv.Store {
		s, err := New(filepath.Join(t.TempDir(), "data"))
		require.NoError(t, err)
		return s
	})
}

func TestStore_Layout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "alice", "1", []byte("{}")))

	data, err := os.ReadFile(filepath.Join(root, "alice", "1.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "alice"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_ListKeysIgnoresForeignFiles(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "alice", "2", []byte("{}")))
	dir := filepath.Join(root, "alice")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, tmpPrefix+"3-123"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	keys, err := s.ListKeys(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, keys)
}

func TestNew_EmptyRoot(t *testing.T) {
	_, err := New("  ")
	assert.Error(t, err)
}

func TestIsWithin(t *testing.T) {
	root := filepath.Join("/srv", "data")
	assert.True(t, isWithin(filepath.Join(root, "alice"), root))
	assert.False(t, isWithin(root, root))
	assert.False(t, isWithin(filepath.Join(root, "..", "etc"), root))
	assert.False(t, isWithin("/srv/database", root))
}
