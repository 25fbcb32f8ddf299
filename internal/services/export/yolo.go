package export

import (
	"fmt"

	"visionpulse/internal/models"
)

// EncodeYOLO converts pixel-coordinate boxes into YOLO label lines:
// "<class_id> <x_center> <y_center> <width> <height>" with every value
// normalized by the image dimensions and printed with six decimal digits.
// Line order follows input box order.
//
// Each normalized value is clamped into [0,1] before formatting, which
// protects against boxes that slightly overflow the image bounds from
// detector rounding.
func EncodeYOLO(boxes []*models.GroundTruthBox, imageWidth, imageHeight int) []string {
	w := float64(imageWidth)
	h := float64(imageHeight)

	lines := make([]string, 0, len(boxes))
	for _, b := range boxes {
		xc := clamp01(((b.X1 + b.X2) / 2) / w)
		yc := clamp01(((b.Y1 + b.Y2) / 2) / h)
		bw := clamp01((b.X2 - b.X1) / w)
		bh := clamp01((b.Y2 - b.Y1) / h)

		lines = append(lines, fmt.Sprintf("%d %.6f %.6f %.6f %.6f", b.ClassID, xc, yc, bw, bh))
	}
	return lines
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
