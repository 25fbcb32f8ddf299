package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/observe"
	"visionpulse/internal/repository"
	"visionpulse/internal/services/ai"
	"visionpulse/internal/services/export"
	"visionpulse/internal/services/metrics"
	"visionpulse/internal/services/session"
	"visionpulse/internal/services/storage"
	"visionpulse/internal/services/validation"
	"visionpulse/internal/services/websocket"
)

// ErrInferenceFailed wraps any detector failure as a single condition.
// Retry policy, if any, belongs to the caller.
var ErrInferenceFailed = errors.New("inference failed")

// Detector is the external object detector boundary. Implementations must
// use a fixed input size and fixed thresholds across calls.
type Detector interface {
	Detect(path string) (*ai.Result, error)
}

// Manager wires the detector, record store, upload store, admission gate and
// websocket hub behind the operations the handlers call.
type Manager struct {
	detector  Detector
	repo      repository.SessionRepository
	uploads   *storage.UploadStore
	hub       *websocket.HubService
	admission *session.Manager
	obs       *observe.Metrics
	logger    *logger.Logger
}

func NewManager(detector Detector, repo repository.SessionRepository, uploads *storage.UploadStore, hub *websocket.HubService, admission *session.Manager, obs *observe.Metrics, logger *logger.Logger) *Manager {
	return &Manager{
		detector:  detector,
		repo:      repo,
		uploads:   uploads,
		hub:       hub,
		admission: admission,
		obs:       obs,
		logger:    logger,
	}
}

func (m *Manager) Admission() *session.Manager { return m.admission }

func (m *Manager) Uploads() *storage.UploadStore { return m.uploads }

func (m *Manager) Hub() *websocket.HubService { return m.hub }

func (m *Manager) Observe() *observe.Metrics { return m.obs }

// RunInference runs the detector over the session's uploaded image, wraps
// the raw detections as unverified ground-truth boxes, computes the raw
// metrics and appends an immutable image record to the session. The fresh
// metrics are also pushed over the websocket channel.
func (m *Manager) RunInference(sessionID string) (*models.ImageRecord, error) {
	path, err := m.uploads.Find(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := m.detector.Detect(path)
	if err != nil {
		m.obs.InferenceErrors.Inc()
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	now := time.Now().UTC()
	imageID := models.NewImageID(sessionID, now)

	boxes := make([]*models.GroundTruthBox, 0, len(result.Detections))
	confidences := make([]float64, 0, len(result.Detections))
	for i, d := range result.Detections {
		box := &models.GroundTruthBox{
			BoxID:      models.NewBoxID(imageID, i),
			X1:         d.X1,
			Y1:         d.Y1,
			X2:         d.X2,
			Y2:         d.Y2,
			Confidence: d.Confidence,
			ClassID:    d.ClassID,
			Label:      d.Label,
		}
		box.NormalizeGeometry()
		boxes = append(boxes, box)
		confidences = append(confidences, d.Confidence)
	}

	raw := metrics.Calculate(result.ElapsedSeconds, confidences)

	img := &models.ImageRecord{
		ImageID:   imageID,
		Timestamp: now,
		Width:     result.ImageWidth,
		Height:    result.ImageHeight,
		Boxes:     boxes,
		Metrics:   raw,
	}

	if err := m.repo.AppendImage(sessionID, img); err != nil {
		return nil, err
	}

	m.obs.InferencesTotal.Inc()
	m.obs.InferenceSeconds.Observe(result.ElapsedSeconds)
	m.hub.SendMetrics(sessionID, raw)
	m.logger.Info("Session %s: %d box(es) detected in %.3fs", sessionID, len(boxes), result.ElapsedSeconds)

	return img, nil
}

// ValidateBox applies a human verdict to one box and returns the updated
// box together with the recomputed true metrics for its image. The engine
// runs inside the store's per-session critical section so two simultaneous
// validations on different boxes of the same session cannot lose an update.
func (m *Manager) ValidateBox(sessionID, imageID string, upd validation.Update) (*models.GroundTruthBox, *models.TrueMetrics, error) {
	record, err := m.repo.Get(sessionID)
	if err != nil {
		return nil, nil, err
	}

	img, err := resolveImage(record, imageID)
	if err != nil {
		return nil, nil, err
	}

	var updated *models.GroundTruthBox
	var tm models.TrueMetrics
	err = m.repo.UpdateBoxes(sessionID, img.ImageID, func(boxes []*models.GroundTruthBox) error {
		box, err := validation.UpdateBoxValidation(boxes, upd)
		if err != nil {
			return err
		}
		updated = box
		tm = metrics.CalculateTrue(boxes, img.Metrics)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	m.obs.ValidationsTotal.Inc()
	m.hub.SendMetrics(sessionID, tm)

	return updated, &tm, nil
}

// TrueMetrics recomputes the verified metrics for one image on demand.
func (m *Manager) TrueMetrics(sessionID, imageID string) (*models.TrueMetrics, error) {
	record, err := m.repo.Get(sessionID)
	if err != nil {
		return nil, err
	}

	img, err := resolveImage(record, imageID)
	if err != nil {
		return nil, err
	}

	tm := metrics.CalculateTrue(img.Boxes, img.Metrics)
	return &tm, nil
}

// GetSession returns the full persisted session record.
func (m *Manager) GetSession(sessionID string) (*models.SessionRecord, error) {
	return m.repo.Get(sessionID)
}

// Export writes a zip with the YOLO label file and, when the uploaded image
// still exists on disk, the original asset.
func (m *Manager) Export(w io.Writer, sessionID, imageID string) error {
	record, err := m.repo.Get(sessionID)
	if err != nil {
		return err
	}

	img, err := resolveImage(record, imageID)
	if err != nil {
		return err
	}

	lines := export.EncodeYOLO(img.Boxes, img.Width, img.Height)

	imagePath, err := m.uploads.Find(sessionID)
	if errors.Is(err, storage.ErrUploadNotFound) {
		imagePath = "" // asset already swept; export labels only
	} else if err != nil {
		return err
	}

	if err := export.WriteArchive(w, sessionID, lines, imagePath); err != nil {
		return err
	}

	m.obs.ExportsTotal.Inc()
	return nil
}

// PurgeExpiredRecords deletes session records untouched since cutoff.
func (m *Manager) PurgeExpiredRecords(cutoff time.Time) (int, error) {
	return m.repo.DeleteExpired(cutoff)
}

// resolveImage picks the named image record, or the latest when imageID is
// empty.
func resolveImage(record *models.SessionRecord, imageID string) (*models.ImageRecord, error) {
	if imageID == "" {
		if img := record.LatestImage(); img != nil {
			return img, nil
		}
		return nil, repository.ErrImageNotFound
	}
	if img := record.ImageByID(imageID); img != nil {
		return img, nil
	}
	return nil, repository.ErrImageNotFound
}
