package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"visionpulse/internal/logger"
)

// ErrUploadNotFound reports that no uploaded file exists for the session.
var ErrUploadNotFound = errors.New("upload not found")

// UploadStore keeps uploaded image files on disk, one per session, named
// "<session_id>.<ext>". A background sweep deletes files older than the TTL
// so abandoned uploads don't accumulate.
type UploadStore struct {
	dir     string
	fileTTL time.Duration
	logger  *logger.Logger
}

// NewUploadStore creates the store and ensures its directory exists.
func NewUploadStore(dir string, fileTTL time.Duration, logger *logger.Logger) (*UploadStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &UploadStore{dir: dir, fileTTL: fileTTL, logger: logger}, nil
}

// Save writes the uploaded bytes for a session and returns the file path.
func (s *UploadStore) Save(sessionID, ext string, data []byte) (string, error) {
	path := filepath.Join(s.dir, sessionID+"."+ext)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

// Find returns the path of the session's uploaded file.
func (s *UploadStore) Find(sessionID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, sessionID+".*"))
	if err != nil {
		return "", fmt.Errorf("failed to search uploads: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrUploadNotFound
	}
	return matches[0], nil
}

// Sweep deletes files older than the TTL and returns how many were removed.
func (s *UploadStore) Sweep() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.logger.Error("Failed to read upload directory: %v", err)
		return 0
	}

	cutoff := time.Now().Add(-s.fileTTL)
	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.logger.Error("Failed to delete %s: %v", entry.Name(), err)
			continue
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("Cleaned up %d old upload(s)", deleted)
	}
	return deleted
}

// Run sweeps on a ticker until the process exits. Meant to be started as a
// goroutine at startup.
func (s *UploadStore) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		<-ticker.C
		s.Sweep()
	}
}
