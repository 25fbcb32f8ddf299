package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/services"
	"visionpulse/internal/services/validation"
)

type validateRequest struct {
	ImageID            string   `json:"image_id"`
	BoxID              string   `json:"box_id"`
	IsCorrect          *bool    `json:"is_correct"`
	Notes              *string  `json:"notes"`
	ConfidenceOverride *float64 `json:"confidence_override"`
}

type validateResponse struct {
	Box         *models.GroundTruthBox `json:"box"`
	TrueMetrics *models.TrueMetrics    `json:"true_metrics"`
}

// ValidateHandler applies a human verdict to one box. image_id defaults to
// the session's most recent image record.
func ValidateHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		var req validateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request body"})
			return
		}
		if req.BoxID == "" || req.IsCorrect == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "box_id and is_correct are required"})
			return
		}

		box, tm, err := manager.ValidateBox(sessionID, req.ImageID, validation.Update{
			BoxID:              req.BoxID,
			IsCorrect:          *req.IsCorrect,
			Notes:              req.Notes,
			ConfidenceOverride: req.ConfidenceOverride,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		logger.Info("Session %s: box %s marked correct=%t", sessionID, req.BoxID, *req.IsCorrect)
		writeJSON(w, http.StatusOK, validateResponse{Box: box, TrueMetrics: tm})
	}
}

// TrueMetricsHandler recomputes verified metrics on demand. ?image_id=
// selects an image; the latest record is used when omitted.
func TrueMetricsHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		tm, err := manager.TrueMetrics(sessionID, r.URL.Query().Get("image_id"))
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, tm)
	}
}

// SessionHandler returns the full persisted session record.
func SessionHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		record, err := manager.GetSession(sessionID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}
