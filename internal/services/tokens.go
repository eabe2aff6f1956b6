package services

import (
	"sync"

	"github.com/desertthunder/vidx/internal/models"
)

// TokenStore holds the session whose token is attached to outgoing requests.
//
// The sqlite-backed implementation lives in the repositories package.
type TokenStore interface {
	Token() string
	Session() models.Session
	SetSession(s models.Session) error
	Clear() error
}

// MemoryTokenStore keeps the session in memory only.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	session models.Session
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Token
}

func (m *MemoryTokenStore) Session() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

func (m *MemoryTokenStore) SetSession(s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = models.Session{}
	return nil
}
