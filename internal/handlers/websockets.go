package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"visionpulse/internal/logger"
	"visionpulse/internal/models"
	"visionpulse/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MetricsWebsocketHandler attaches a client to a session's metrics channel.
// The connection receives a heartbeat ping every second and metrics pushes
// whenever inference or validation updates the session. It carries no core
// logic.
func MetricsWebsocketHandler(manager *services.Manager, logger *logger.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sessionID := ps.ByName("session_id")
		if err := models.ValidateSessionID(sessionID); err != nil {
			writeError(w, err)
			return
		}

		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		hub := manager.Hub()
		hub.Register(sessionID, connection)
		defer hub.Unregister(sessionID, connection)

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					hub.SendPing(sessionID)
				case <-done:
					return
				}
			}
		}()
		defer close(done)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				logger.Info("Metrics client for session %s disconnected: %v", sessionID, err)
				return
			}
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		}
	}
}
