package filestore

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveAndLoad(t *testing.T) {
	store := newStoreWithFs(zap.NewNop(), "/var/docs", afero.NewMemMapFs())

	content := []byte("signed diploma bytes")
	path, err := store.Save(content)
	require.NoError(t, err)
	assert.Contains(t, path, "doc_")

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, content, loaded)
}

func TestSaveCreatesRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := newStoreWithFs(zap.NewNop(), "/var/docs/nested", fs)

	_, err := store.Save([]byte("x"))
	require.NoError(t, err)

	exists, err := afero.DirExists(fs, "/var/docs/nested")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveTwiceDifferentPaths(t *testing.T) {
	store := newStoreWithFs(zap.NewNop(), "/var/docs", afero.NewMemMapFs())

	first, err := store.Save([]byte("same content"))
	require.NoError(t, err)
	second, err := store.Save([]byte("same content"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLoadMissing(t *testing.T) {
	store := newStoreWithFs(zap.NewNop(), "/var/docs", afero.NewMemMapFs())

	_, err := store.Load("/var/docs/doc_123.bin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove(t *testing.T) {
	store := newStoreWithFs(zap.NewNop(), "/var/docs", afero.NewMemMapFs())

	path, err := store.Save([]byte("to be removed"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	_, err = store.Load(path)
	assert.ErrorIs(t, err, ErrNotFound)

	// removing again is a no-op
	assert.NoError(t, store.Remove(path))
}
