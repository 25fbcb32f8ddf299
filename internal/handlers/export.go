package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/services"
)

// ExportHandler streams a zip with the YOLO label file and the original
// image. The archive is assembled in memory first so errors never leave a
// partially written response behind.
func ExportHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		var buf bytes.Buffer
		if err := manager.Export(&buf, sessionID, r.URL.Query().Get("image_id")); err != nil {
			logger.Error("Export failed for session %s: %v", sessionID, err)
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", sessionID))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
