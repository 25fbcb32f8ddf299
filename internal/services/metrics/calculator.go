package metrics

import (
	"math"

	"visionpulse/internal/models"
)

// Calculate computes the raw detector metrics for one inference call.
//
// FPS is 1/elapsed, average confidence is the arithmetic mean, and the false
// positive rate is the percentage of boxes below 0.5 confidence. That last
// number is a rough proxy based on a confidence threshold; the verified rate
// lives in CalculateTrue.
func Calculate(elapsedSeconds float64, confidences []float64) models.Metrics {
	var fps float64
	if elapsedSeconds > 0 {
		fps = 1.0 / elapsedSeconds
	}

	if len(confidences) == 0 {
		return models.Metrics{FPS: round(fps, 2)}
	}

	var sum float64
	lowConf := 0
	for _, c := range confidences {
		sum += c
		if c < 0.5 {
			lowConf++
		}
	}

	return models.Metrics{
		FPS:               round(fps, 2),
		AvgConfidence:     round(sum/float64(len(confidences)), 3),
		FalsePositiveRate: round(float64(lowConf)/float64(len(confidences))*100, 1),
		BoxCount:          len(confidences),
	}
}

// round is display-precision rounding. It is applied once at the edge of
// each calculator and never fed back into further computation.
func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
