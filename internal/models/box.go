package models

import "time"

// GroundTruthBox is one predicted bounding box under human review.
// Geometry is in image pixel coordinates with X1 < X2 and Y1 < Y2.
// IsCorrect carries no meaning until IsVerified is true.
type GroundTruthBox struct {
	BoxID      string     `json:"box_id"`
	X1         float64    `json:"x1"`
	Y1         float64    `json:"y1"`
	X2         float64    `json:"x2"`
	Y2         float64    `json:"y2"`
	Confidence float64    `json:"confidence"`
	ClassID    int        `json:"class_id"`
	Label      string     `json:"label"`
	IsVerified bool       `json:"is_verified"`
	IsCorrect  bool       `json:"is_correct"`
	Notes      *string    `json:"notes,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// NormalizeGeometry swaps inverted coordinates so that X1 < X2 and Y1 < Y2.
func (b *GroundTruthBox) NormalizeGeometry() {
	if b.X1 > b.X2 {
		b.X1, b.X2 = b.X2, b.X1
	}
	if b.Y1 > b.Y2 {
		b.Y1, b.Y2 = b.Y2, b.Y1
	}
}
