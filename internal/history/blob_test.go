package history

import (
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBlobStore(t *testing.T, b BlobStore) {
	t.Helper()

	_, err := b.Get("k")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Set("k", "v1"))
	require.NoError(t, b.Set("k", "v2"))
	got, err := b.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	require.NoError(t, b.Remove("k"))
	_, err = b.Get("k")
	require.ErrorIs(t, err, ErrNotFound)

	// removing a missing key is not an error
	require.NoError(t, b.Remove("k"))
}

func TestMemoryBlobStore(t *testing.T) {
	exerciseBlobStore(t, NewMemoryBlobStore())
}

func TestFileBlobStore(t *testing.T) {
	b, err := NewFileBlobStore(filepath.Join(t.TempDir(), "nested"))
	require.NoError(t, err)
	exerciseBlobStore(t, b)
}

func TestSQLiteBlobStore(t *testing.T) {
	b, err := NewSQLiteBlobStore(":memory:")
	require.NoError(t, err)
	defer b.Close()
	exerciseBlobStore(t, b)
}

func TestKeyringBlobStore(t *testing.T) {
	exerciseBlobStore(t, NewKeyringBlobStore(keyring.NewArrayKeyring(nil)))
}

func TestStoreOverSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	b, err := NewSQLiteBlobStore(path)
	require.NoError(t, err)
	s := NewStore(b)
	s.Record("SELECT 1", StatusSuccess)
	require.NoError(t, s.Close())

	b, err = NewSQLiteBlobStore(path)
	require.NoError(t, err)
	reopened := NewStore(b)
	defer reopened.Close()

	loaded := reopened.Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, "SELECT 1", loaded[0].SQL)
}

func TestOpenBackends(t *testing.T) {
	b, err := Open(BackendMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryBlobStore{}, b)

	b, err = Open(BackendFile, t.TempDir())
	require.NoError(t, err)
	assert.IsType(t, &FileBlobStore{}, b)

	b, err = Open(BackendSQLite, filepath.Join(t.TempDir(), "h.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteBlobStore{}, b)
	require.NoError(t, b.(*SQLiteBlobStore).Close())

	_, err = Open("redis", "")
	assert.Error(t, err)
}
