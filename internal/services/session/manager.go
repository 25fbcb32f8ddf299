package session

import (
	"fmt"
	"sync"
	"time"
)

type entry struct {
	count     int
	createdAt time.Time
}

// Manager is the per-session upload quota gate. It tracks an upload counter
// per session id and expires idle sessions after a TTL measured from
// creation time. It deliberately does not coordinate with the record store;
// the two may disagree transiently (counter purged while historical image
// records remain) and that is accepted behavior.
type Manager struct {
	maxImagesPerSession int
	sessionTTL          time.Duration

	mu       sync.Mutex
	sessions map[string]*entry

	now func() time.Time
}

// NewManager creates an admission manager allowing maxImagesPerSession
// uploads per session, expiring sessions sessionTTL after creation.
func NewManager(maxImagesPerSession int, sessionTTL time.Duration) *Manager {
	return &Manager{
		maxImagesPerSession: maxImagesPerSession,
		sessionTTL:          sessionTTL,
		sessions:            make(map[string]*entry),
		now:                 time.Now,
	}
}

// CanUpload reports whether the session may upload another image. The
// reason string is empty on success and human-readable on denial. Expired
// sessions are purged before the check, so an expired session id starts
// over with a fresh counter rather than being permanently banned.
func (m *Manager) CanUpload(sessionID string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.purgeExpired()

	e := m.session(sessionID)
	if e.count >= m.maxImagesPerSession {
		return false, fmt.Sprintf("Session limit reached (%d images max)", m.maxImagesPerSession)
	}
	return true, ""
}

// Increment adds one to the session's upload counter. Concurrent calls for
// the same session id are both reflected.
func (m *Manager) Increment(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(sessionID).count++
}

// GetCount returns the current upload count for the session, zero when the
// session is unknown.
func (m *Manager) GetCount(sessionID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[sessionID]; ok {
		return e.count
	}
	return 0
}

// session returns the live entry for sessionID, creating it on first use.
// Callers must hold m.mu.
func (m *Manager) session(sessionID string) *entry {
	e, ok := m.sessions[sessionID]
	if !ok {
		e = &entry{createdAt: m.now()}
		m.sessions[sessionID] = e
	}
	return e
}

// purgeExpired drops sessions older than the TTL. Callers must hold m.mu.
func (m *Manager) purgeExpired() {
	cutoff := m.now().Add(-m.sessionTTL)
	for id, e := range m.sessions {
		if e.createdAt.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
