package storage

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveOpenDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.Save("batch/b-1.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, "batch/b-1.csv", rel)

	f, err := store.Open(rel)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "a,b\n", string(body))

	require.NoError(t, store.Delete(rel))
	require.NoError(t, store.Delete(rel))
	_, err = store.Open(rel)
	assert.Error(t, err)
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../outside.csv", []byte("x"))
	assert.ErrorIs(t, err, ErrOutsideRoot)
	_, err = store.Open("/etc/passwd")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.pdf", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("new.pdf", []byte("new"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.pdf"), past, past))

	deleted, err := store.CleanupOlderThan(time.Now(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.pdf"}, deleted)
}
