package models

// Metrics is the raw detector snapshot for one inference call.
// FalsePositiveRate here is a confidence-threshold proxy (% of boxes below
// 0.5 confidence), not the verified rate in TrueMetrics.
type Metrics struct {
	FPS               float64 `json:"fps"`
	AvgConfidence     float64 `json:"avg_confidence"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	BoxCount          int     `json:"box_count"`
}

// TrueMetrics is derived on demand from the verified boxes of one image
// record. It is never stored; recompute it whenever it is requested.
type TrueMetrics struct {
	TruePositives     int     `json:"true_positives"`
	FalsePositives    int     `json:"false_positives"`
	TotalVerified     int     `json:"total_verified"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	F1Score           float64 `json:"f1_score"`
	FalsePositiveRate float64 `json:"false_positive_rate"`

	// Raw detector metrics passed through unchanged, namespaced so both
	// signals stay visible side by side.
	YoloFPS           float64 `json:"yolo_fps"`
	YoloAvgConfidence float64 `json:"yolo_avg_confidence"`
	YoloBoxCount      int     `json:"yolo_box_count"`
}
