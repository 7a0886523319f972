package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndReadFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("user-1", "datesheet.png", []byte("fake-png"))
	require.NoError(t, err)
	assert.Contains(t, name, "datesheet.png")

	data, err := store.ReadFile("user-1", name)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-png"), data)
}

func TestListNewestFirst(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("user-1", "first.png", []byte("a"))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = store.Save("user-1", "second.png", []byte("bb"))
	require.NoError(t, err)

	files, err := store.List("user-1")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "second.png", files[0].OriginalName)
	assert.Equal(t, "first.png", files[1].OriginalName)
}

func TestListUnknownOwner(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	files, err := store.List("nobody")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestOwnersAreIsolated(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("user-1", "mine.png", []byte("a"))
	require.NoError(t, err)

	_, err = store.ReadFile("user-2", name)
	require.Error(t, err)
}

func TestDeleteCountsRemovals(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("user-1", "old.png", []byte("a"))
	require.NoError(t, err)

	deleted := store.Delete("user-1", []string{name, "missing.png"})
	assert.Equal(t, 1, deleted)

	files, err := store.List("user-1")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestSanitizeStripsPathTraversal(t *testing.T) {
	assert.Equal(t, "passwd", sanitize("../../etc/passwd"))
	assert.Equal(t, "my_datesheet.png", sanitize("my datesheet.png"))
	assert.Equal(t, "_", sanitize(""))
}
