package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"visionpulse/internal/models"
	"visionpulse/internal/repository"
	"visionpulse/internal/services"
	"visionpulse/internal/services/storage"
	"visionpulse/internal/services/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error kinds to distinct HTTP statuses so a
// caller can tell retryable failures (detector, store) from input errors.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidSessionID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid session id"})
	case errors.Is(err, validation.ErrBoxNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Box not found"})
	case errors.Is(err, storage.ErrUploadNotFound),
		errors.Is(err, repository.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found"})
	case errors.Is(err, repository.ErrImageNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Image not found"})
	case errors.Is(err, services.ErrInferenceFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Inference failed"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}
