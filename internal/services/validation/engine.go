package validation

import (
	"errors"
	"time"

	"visionpulse/internal/models"
)

// ErrBoxNotFound reports a box id with no match in the given collection.
// A malformed id and a well-formed id pointing outside the collection both
// surface this same error, so callers cannot probe for valid indices.
var ErrBoxNotFound = errors.New("box not found")

// Update is a user's verdict on one box.
type Update struct {
	BoxID              string
	IsCorrect          bool
	Notes              *string
	ConfidenceOverride *float64
}

// UpdateBoxValidation applies a verdict to the box matching upd.BoxID,
// mutating it in place in the caller-supplied collection. It returns the
// same *GroundTruthBox stored in the slice, so the caller observes the
// stored object. The engine itself holds no state.
//
// The confidence override is a correction channel for a human to fix a bad
// score; it does not re-run detection and leaves geometry untouched.
func UpdateBoxValidation(boxes []*models.GroundTruthBox, upd Update) (*models.GroundTruthBox, error) {
	var box *models.GroundTruthBox
	for _, b := range boxes {
		if b.BoxID == upd.BoxID {
			box = b
			break
		}
	}
	if box == nil {
		return nil, ErrBoxNotFound
	}

	now := time.Now().UTC()
	box.IsVerified = true
	box.IsCorrect = upd.IsCorrect
	box.VerifiedAt = &now
	if upd.Notes != nil {
		box.Notes = upd.Notes
	}
	if upd.ConfidenceOverride != nil {
		box.Confidence = *upd.ConfidenceOverride
	}

	return box, nil
}
