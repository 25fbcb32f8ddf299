package metrics

import "visionpulse/internal/models"

// CalculateTrue aggregates human-verified boxes into precision, recall, F1
// and a verified false positive rate, merged with the raw detector metrics.
//
// Unverified boxes are excluded from every count. A verified-correct box is
// a true positive, a verified-incorrect box a false positive. No false
// negative signal exists in this model (there are no ground-truth boxes
// independent of detector output), so recall is TP/(TP+0): exactly 1 when
// any true positive exists and 0 otherwise. Keep that as is; it is not a
// textbook recall.
func CalculateTrue(boxes []*models.GroundTruthBox, raw models.Metrics) models.TrueMetrics {
	tp, fp := 0, 0
	for _, b := range boxes {
		if !b.IsVerified {
			continue
		}
		if b.IsCorrect {
			tp++
		} else {
			fp++
		}
	}
	totalVerified := tp + fp

	var precision, recall, f1, fpRate float64
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp > 0 {
		recall = 1.0
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	if totalVerified > 0 {
		// Denominator is verified boxes, unlike the confidence proxy in
		// Calculate which divides by all boxes.
		fpRate = float64(fp) / float64(totalVerified) * 100
	}

	return models.TrueMetrics{
		TruePositives:     tp,
		FalsePositives:    fp,
		TotalVerified:     totalVerified,
		Precision:         round(precision, 3),
		Recall:            round(recall, 3),
		F1Score:           round(f1, 3),
		FalsePositiveRate: round(fpRate, 1),
		YoloFPS:           raw.FPS,
		YoloAvgConfidence: raw.AvgConfidence,
		YoloBoxCount:      raw.BoxCount,
	}
}
