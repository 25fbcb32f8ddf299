package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/services"
)

type inferResponse struct {
	SessionID string                   `json:"session_id"`
	ImageID   string                   `json:"image_id"`
	Boxes     []*models.GroundTruthBox `json:"boxes"`
	Count     int                      `json:"count"`
	Metrics   models.Metrics           `json:"metrics"`
}

// InferHandler runs the detector over the session's uploaded image and
// returns the fresh unverified boxes plus the raw metrics.
func InferHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		img, err := manager.RunInference(sessionID)
		if err != nil {
			logger.Error("Inference failed for session %s: %v", sessionID, err)
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, inferResponse{
			SessionID: sessionID,
			ImageID:   img.ImageID,
			Boxes:     img.Boxes,
			Count:     len(img.Boxes),
			Metrics:   img.Metrics,
		})
	}
}
