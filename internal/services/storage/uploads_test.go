package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"visionpulse/internal/logger"
)

func newTestStore(t *testing.T, ttl time.Duration) *UploadStore {
	t.Helper()

	dir := t.TempDir()
	log, err := logger.New(filepath.Join(dir, "logs"))
	require.NoError(t, err)

	store, err := NewUploadStore(filepath.Join(dir, "uploads"), ttl, log)
	require.NoError(t, err)
	return store
}

func TestSaveAndFind(t *testing.T) {
	store := newTestStore(t, time.Hour)

	path, err := store.Save("session-a", "png", []byte("data"))
	require.NoError(t, err)
	require.Equal(t, "session-a.png", filepath.Base(path))

	found, err := store.Find("session-a")
	require.NoError(t, err)
	require.Equal(t, path, found)
}

func TestFind_Missing(t *testing.T) {
	store := newTestStore(t, time.Hour)

	_, err := store.Find("nope")
	require.ErrorIs(t, err, ErrUploadNotFound)
}

func TestSweep_DeletesOnlyExpired(t *testing.T) {
	store := newTestStore(t, 30*time.Minute)

	oldPath, err := store.Save("old-session", "jpg", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save("fresh-session", "jpg", []byte("fresh"))
	require.NoError(t, err)

	// Age the first file past the TTL.
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	require.Equal(t, 1, store.Sweep())

	_, err = store.Find("old-session")
	require.ErrorIs(t, err, ErrUploadNotFound)
	_, err = store.Find("fresh-session")
	require.NoError(t, err)
}
