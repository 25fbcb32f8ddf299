package repository

import (
	"errors"
	"time"

	"visionpulse/internal/models"
)

// ErrSessionNotFound reports a session id with no persisted record.
var ErrSessionNotFound = errors.New("session not found")

// ErrImageNotFound reports an image id missing from the session record.
var ErrImageNotFound = errors.New("image not found")

// SessionRepository is the durable per-session record store. Each session is
// persisted as a single unit; implementations must serialize concurrent
// writers for the same session id so that a read-modify-write never loses an
// update.
type SessionRepository interface {
	// Get returns the full session record. ErrSessionNotFound when the
	// session has never had an image appended.
	Get(sessionID string) (*models.SessionRecord, error)

	// AppendImage adds an image record to the session, creating the session
	// record on first append.
	AppendImage(sessionID string, img *models.ImageRecord) error

	// UpdateBoxes runs mutate over the box collection of one image record
	// inside the session's critical section and persists the whole record
	// afterwards. When mutate returns an error nothing is written.
	UpdateBoxes(sessionID, imageID string, mutate func(boxes []*models.GroundTruthBox) error) error

	// DeleteExpired removes session records last touched before cutoff and
	// reports how many were deleted.
	DeleteExpired(cutoff time.Time) (int, error)
}
