// Package hub serves interactive field-editing sessions over WebSocket. One
// connection edits one field at a time; the server runs the authoritative
// editor state machine and pushes state after every transition.
package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uridolan77/reportaing-admin/internal/editor"
)

// Session holds per-connection editing state: which field is open and the
// editor driving it.
type Session struct {
	ID           string    `json:"id"`
	EntityType   string    `json:"entity_type"`
	EntityID     string    `json:"entity_id"`
	Field        string    `json:"field"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`

	Editor *editor.Editor `json:"-"`
}

// NewSession creates a session over an open field editor.
func NewSession(entityType, entityID, field string, ed *editor.Editor) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		EntityType:   entityType,
		EntityID:     entityID,
		Field:        field,
		CreatedAt:    now,
		LastActiveAt: now,
		Editor:       ed,
	}
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.LastActiveAt = time.Now()
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	return time.Since(s.LastActiveAt) > timeout
}

// Manager handles session creation, lookup, and cleanup.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager creates a session manager with the given timeouts.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Create registers a new session for an open field.
func (m *Manager) Create(entityType, entityID, field string, ed *editor.Editor) *Session {
	s := NewSession(entityType, entityID, field, ed)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a session by ID. Returns nil if not found or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Cleanup removes all expired and idle sessions. Called periodically.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout) {
			delete(m.sessions, id)
		}
	}
}
