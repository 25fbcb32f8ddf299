package handlers

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const version = "0.1.0"

// RootHandler reports liveness and version.
func RootHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "alive", "version": version})
	}
}

// HealthHandler is the health check endpoint.
func HealthHandler() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
