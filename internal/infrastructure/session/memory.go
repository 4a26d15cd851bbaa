package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/99minutos/authgate/internal/core/domain"
)

// MemoryStore keeps sessions in a process-local map. Sessions never expire
// and are lost when the process restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
	newToken func() string
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]domain.Session),
		newToken: uuid.NewString,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, user *domain.User) (*domain.Session, error) {
	sess := domain.NewSession(m.newToken(), user, m.now().UTC())

	m.mu.Lock()
	m.sessions[sess.Token] = *sess
	m.mu.Unlock()

	return sess, nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*domain.Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (m *MemoryStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len reports the number of active sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
