package repositories

import (
	"context"
	"errors"
	"sync"

	"alfredoptarigan/submission-validator/internal/wizard"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// SessionStore persists wizard sessions. Update applies fn to the stored
// session atomically: concurrent updates of the same session are serialized
// and fn's mutation is saved only when it returns nil.
type SessionStore interface {
	Create(ctx context.Context, session *wizard.Session) error
	Get(ctx context.Context, id string) (*wizard.Session, error)
	Update(ctx context.Context, id string, fn func(*wizard.Session) error) (*wizard.Session, error)
}

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*wizard.Session
}

// NewMemorySessionStore keeps sessions in process memory. Sessions are lost
// on restart and are not shared between replicas.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]*wizard.Session)}
}

// Create implements SessionStore.
func (m *memorySessionStore) Create(_ context.Context, session *wizard.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return ErrSessionExists
	}
	m.sessions[session.ID] = copySession(session)
	return nil
}

// Get implements SessionStore.
func (m *memorySessionStore) Get(_ context.Context, id string) (*wizard.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

// Update implements SessionStore.
func (m *memorySessionStore) Update(_ context.Context, id string, fn func(*wizard.Session) error) (*wizard.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	working := copySession(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.sessions[id] = working
	return copySession(working), nil
}

// copySession detaches callers from the stored value. Reports are never
// mutated after creation, so sharing the pointer is safe.
func copySession(s *wizard.Session) *wizard.Session {
	c := *s
	if s.File != nil {
		f := *s.File
		c.File = &f
	}
	return &c
}
