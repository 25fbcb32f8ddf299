package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidSessionID reports a session id that fails format validation.
var ErrInvalidSessionID = errors.New("invalid session id")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// ValidateSessionID checks the opaque session id format: alphanumeric,
// hyphen or underscore, at most 100 characters.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) {
		return ErrInvalidSessionID
	}
	return nil
}

// ImageRecord is one detector invocation result for one uploaded asset.
// Created once per successful inference; immutable apart from the
// verification state of its boxes.
type ImageRecord struct {
	ImageID   string            `json:"image_id"`
	Timestamp time.Time         `json:"timestamp"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Boxes     []*GroundTruthBox `json:"boxes"`
	Metrics   Metrics           `json:"yolo_metrics"`
}

// SessionRecord is the persisted per-session unit: the session id and its
// ordered image records.
type SessionRecord struct {
	SessionID string         `json:"session_id"`
	Images    []*ImageRecord `json:"images"`
}

// LatestImage returns the most recently appended image record, or nil when
// the session has none.
func (s *SessionRecord) LatestImage() *ImageRecord {
	if len(s.Images) == 0 {
		return nil
	}
	return s.Images[len(s.Images)-1]
}

// ImageByID finds an image record by its id.
func (s *SessionRecord) ImageByID(imageID string) *ImageRecord {
	for _, img := range s.Images {
		if img.ImageID == imageID {
			return img
		}
	}
	return nil
}

// NewImageID builds the image identifier from the owning session id and the
// ingestion timestamp.
func NewImageID(sessionID string, ts time.Time) string {
	return fmt.Sprintf("%s_%d", sessionID, ts.UnixNano())
}

// NewBoxID builds a box identifier scoped to its image.
func NewBoxID(imageID string, index int) string {
	return fmt.Sprintf("%s_%d", imageID, index)
}
