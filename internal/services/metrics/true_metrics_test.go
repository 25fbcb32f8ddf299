package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"visionpulse/internal/models"
)

func box(conf float64, verified, correct bool) *models.GroundTruthBox {
	return &models.GroundTruthBox{
		X1: 10, Y1: 10, X2: 50, Y2: 50,
		Confidence: conf,
		Label:      "person",
		IsVerified: verified,
		IsCorrect:  correct,
	}
}

func TestCalculateTrue_NoVerifiedBoxes(t *testing.T) {
	boxes := []*models.GroundTruthBox{box(0.9, false, false)}
	raw := models.Metrics{FPS: 10.0, AvgConfidence: 0.9, BoxCount: 1}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 0, tm.TruePositives)
	require.Equal(t, 0, tm.FalsePositives)
	require.Equal(t, 0, tm.TotalVerified)
	require.Equal(t, 0.0, tm.Precision)
	require.Equal(t, 0.0, tm.Recall)
	require.Equal(t, 0.0, tm.F1Score)
	require.Equal(t, 0.0, tm.FalsePositiveRate)
}

func TestCalculateTrue_AllCorrect(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		box(0.9, true, true),
		box(0.85, true, true),
	}
	raw := models.Metrics{FPS: 10.0, AvgConfidence: 0.875, BoxCount: 2}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 2, tm.TruePositives)
	require.Equal(t, 0, tm.FalsePositives)
	require.Equal(t, 1.0, tm.Precision)
	require.Equal(t, 1.0, tm.Recall)
	require.Equal(t, 1.0, tm.F1Score)
	require.Equal(t, 0.0, tm.FalsePositiveRate)
}

func TestCalculateTrue_AllIncorrect(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		box(0.4, true, false),
		box(0.3, true, false),
	}
	raw := models.Metrics{FPS: 10.0, AvgConfidence: 0.35, BoxCount: 2}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 0, tm.TruePositives)
	require.Equal(t, 2, tm.FalsePositives)
	require.Equal(t, 0.0, tm.Precision)
	require.Equal(t, 0.0, tm.Recall)
	require.Equal(t, 0.0, tm.F1Score)
	require.Equal(t, 100.0, tm.FalsePositiveRate)
}

func TestCalculateTrue_MixedVerdicts(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		box(0.9, true, true),
		box(0.4, true, false),
		box(0.85, true, true),
	}
	raw := models.Metrics{FPS: 10.0, AvgConfidence: 0.717, BoxCount: 3}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 2, tm.TruePositives)
	require.Equal(t, 1, tm.FalsePositives)
	require.InDelta(t, 0.667, tm.Precision, 0.001)
	require.Equal(t, 1.0, tm.Recall)
	require.InDelta(t, 0.800, tm.F1Score, 0.001)
	require.InDelta(t, 33.3, tm.FalsePositiveRate, 0.1)
}

func TestCalculateTrue_PartialVerification(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		box(0.9, true, true),
		box(0.4, false, false), // unverified, excluded from every count
	}
	raw := models.Metrics{FPS: 10.0, AvgConfidence: 0.65, BoxCount: 2}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 1, tm.TotalVerified)
	require.Equal(t, 1, tm.TruePositives)
	require.Equal(t, 0, tm.FalsePositives)
	require.Equal(t, 1.0, tm.Precision)
	require.Equal(t, 0.0, tm.FalsePositiveRate)
}

func TestCalculateTrue_EmptyBoxes(t *testing.T) {
	tm := CalculateTrue(nil, models.Metrics{FPS: 10.0})

	require.Equal(t, 0, tm.TruePositives)
	require.Equal(t, 0, tm.FalsePositives)
	require.Equal(t, 0, tm.TotalVerified)
}

func TestCalculateTrue_PreservesRawMetrics(t *testing.T) {
	boxes := []*models.GroundTruthBox{box(0.9, true, true)}
	raw := models.Metrics{FPS: 14.5, AvgConfidence: 0.875, BoxCount: 5}

	tm := CalculateTrue(boxes, raw)

	require.Equal(t, 14.5, tm.YoloFPS)
	require.Equal(t, 0.875, tm.YoloAvgConfidence)
	require.Equal(t, 5, tm.YoloBoxCount)
}

func TestCalculateTrue_Idempotent(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		box(0.9, true, true),
		box(0.4, true, false),
		box(0.7, false, false),
	}
	raw := models.Metrics{FPS: 9.1, AvgConfidence: 0.667, BoxCount: 3}

	first := CalculateTrue(boxes, raw)
	second := CalculateTrue(boxes, raw)

	require.Equal(t, first, second)
}

func TestCalculateTrue_Bounds(t *testing.T) {
	// Precision <= 1, recall is 0 or 1, f1 in [0,1] and zero whenever
	// precision or recall is zero.
	cases := [][]*models.GroundTruthBox{
		{box(0.9, true, true)},
		{box(0.9, true, false)},
		{box(0.9, true, true), box(0.2, true, false), box(0.5, true, false)},
		{box(0.9, false, false)},
	}

	for _, boxes := range cases {
		tm := CalculateTrue(boxes, models.Metrics{})
		require.LessOrEqual(t, tm.Precision, 1.0)
		require.Contains(t, []float64{0.0, 1.0}, tm.Recall)
		require.GreaterOrEqual(t, tm.F1Score, 0.0)
		require.LessOrEqual(t, tm.F1Score, 1.0)
		if tm.Precision == 0 || tm.Recall == 0 {
			require.Equal(t, 0.0, tm.F1Score)
		}
	}
}
