package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"visionpulse/internal/models"
	"visionpulse/internal/repository"
)

// SessionRepository implements repository.SessionRepository on the SQLite
// document store. Every write is a full-record rewrite: read the previous
// record, mutate a copy, write the whole record back, or fail without
// writing. The per-session lock makes the read-modify-write atomic against
// other writers for the same session id.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a SQLite-backed session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Get returns the full session record.
func (r *SessionRepository) Get(sessionID string) (*models.SessionRecord, error) {
	return r.load(sessionID)
}

// AppendImage adds an image record, creating the session record on first
// append.
func (r *SessionRepository) AppendImage(sessionID string, img *models.ImageRecord) error {
	mu := r.db.SessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.load(sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		record = &models.SessionRecord{SessionID: sessionID}
	} else if err != nil {
		return err
	}

	record.Images = append(record.Images, img)
	return r.store(record)
}

// UpdateBoxes applies mutate to the named image's boxes inside the
// session's critical section, then rewrites the record. Nothing is written
// when mutate fails.
func (r *SessionRepository) UpdateBoxes(sessionID, imageID string, mutate func(boxes []*models.GroundTruthBox) error) error {
	mu := r.db.SessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	record, err := r.load(sessionID)
	if err != nil {
		return err
	}

	img := record.ImageByID(imageID)
	if img == nil {
		return repository.ErrImageNotFound
	}

	if err := mutate(img.Boxes); err != nil {
		return err
	}

	return r.store(record)
}

// DeleteExpired removes session rows last updated before cutoff.
func (r *SessionRepository) DeleteExpired(cutoff time.Time) (int, error) {
	res, err := r.db.Conn().Exec(`DELETE FROM sessions WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return int(n), nil
}

func (r *SessionRepository) load(sessionID string) (*models.SessionRecord, error) {
	var raw string
	err := r.db.Conn().QueryRow(`SELECT record FROM sessions WHERE session_id = ?`, sessionID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var record models.SessionRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("failed to decode session record: %w", err)
	}
	return &record, nil
}

func (r *SessionRepository) store(record *models.SessionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode session record: %w", err)
	}

	_, err = r.db.Conn().Exec(`
		INSERT INTO sessions (session_id, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at
	`, record.SessionID, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}
