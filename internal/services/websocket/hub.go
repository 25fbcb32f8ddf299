package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"visionpulse/internal/logger"
)

// HubService tracks at most one live metrics connection per session id.
// It carries no core logic; it only pushes heartbeats and metrics snapshots
// to whichever client is watching a session.
type HubService struct {
	mu      sync.RWMutex
	clients map[string]*websocket.Conn
	logger  *logger.Logger
}

func NewHubService(logger *logger.Logger) *HubService {
	return &HubService{
		clients: make(map[string]*websocket.Conn),
		logger:  logger,
	}
}

// Register attaches a connection to a session id, replacing any previous
// connection for the same session.
func (h *HubService) Register(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	if old, ok := h.clients[sessionID]; ok {
		old.Close()
	}
	h.clients[sessionID] = conn
	h.mu.Unlock()
	h.logger.Info("Metrics client connected for session %s", sessionID)
}

// Unregister detaches and closes the connection for a session id, but only
// if conn is still the registered one.
func (h *HubService) Unregister(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	if current, ok := h.clients[sessionID]; ok && current == conn {
		delete(h.clients, sessionID)
		current.Close()
	}
	h.mu.Unlock()
	h.logger.Info("Metrics client disconnected for session %s", sessionID)
}

// SendMetrics pushes a metrics snapshot to the session's client, if any.
// A dead connection is dropped from the registry.
func (h *HubService) SendMetrics(sessionID string, payload interface{}) {
	h.send(sessionID, map[string]interface{}{"type": "metrics", "data": payload})
}

// SendPing pushes a heartbeat to the session's client, if any.
func (h *HubService) SendPing(sessionID string) {
	h.send(sessionID, map[string]interface{}{"type": "ping"})
}

func (h *HubService) send(sessionID string, msg map[string]interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, ok := h.clients[sessionID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to encode websocket message: %v", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Error("Error sending message to session %s: %v", sessionID, err)
		delete(h.clients, sessionID)
		conn.Close()
	}
}

// ClientCount returns the number of live connections.
func (h *HubService) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
