package handlers

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"visionpulse/internal/config"
	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/services"
)

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var extPattern = regexp.MustCompile(`^[a-zA-Z0-9]{1,8}$`)

type uploadResponse struct {
	SessionID string `json:"session_id"`
	Filename  string `json:"filename"`
	Size      int    `json:"size"`
	MIME      string `json:"mime"`
}

// UploadHandler accepts a multipart image upload, validates size and content
// type by sniffing the bytes, and stores the file under a session id. The
// client may pass ?session_id= to add another image to an existing session;
// otherwise a fresh id is generated. The admission gate runs before the file
// is accepted and the counter is incremented only after a successful save.
func UploadHandler(manager *services.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadSize)

		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing file field"})
			return
		}
		defer file.Close()

		contents, err := io.ReadAll(file)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("File too large. Max %d bytes", cfg.MaxUploadSize)})
			return
		}

		mime := http.DetectContentType(contents)
		if !allowedMIMETypes[mime] {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("Invalid file type: %s", mime)})
			return
		}

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			sessionID = uuid.New().String()
		} else if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		allowed, reason := manager.Admission().CanUpload(sessionID)
		if !allowed {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: reason})
			return
		}

		ext := "jpg"
		if idx := strings.LastIndex(header.Filename, "."); idx >= 0 {
			if candidate := header.Filename[idx+1:]; extPattern.MatchString(candidate) {
				ext = candidate
			}
		}

		if _, err := manager.Uploads().Save(sessionID, ext, contents); err != nil {
			logger.Error("Failed to save upload for session %s: %v", sessionID, err)
			writeError(w, err)
			return
		}

		manager.Admission().Increment(sessionID)
		manager.Observe().UploadsTotal.Inc()
		logger.Info("Session %s: stored upload %s (%d bytes, %s)", sessionID, header.Filename, len(contents), mime)

		writeJSON(w, http.StatusOK, uploadResponse{
			SessionID: sessionID,
			Filename:  header.Filename,
			Size:      len(contents),
			MIME:      mime,
		})
	}
}
