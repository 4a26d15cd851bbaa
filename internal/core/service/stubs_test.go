package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub credential store
// ---------------------------------------------------------------------------

type stubUserStore struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int64

	findErr     error // if set, FindByUsername returns this error
	updateErr   error // if set, UpdateRole returns this error
	updateCalls int
	beforeFind  func() // called at the start of FindByUsername, outside the lock
}

func newStubUserStore(users ...*domain.User) *stubUserStore {
	s := &stubUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		_, _ = s.Create(context.Background(), u)
	}
	return s
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (s *stubUserStore) VerifyCredentials(_ context.Context, username, secret string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok || u.Secret != secret {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if s.beforeFind != nil {
		s.beforeFind()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (s *stubUserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *stubUserStore) UpdateRole(_ context.Context, username string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.updateErr != nil {
		return s.updateErr
	}
	if u, ok := s.users[username]; ok {
		u.Role = role
	}
	return nil
}

func (s *stubUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	s.nextID++
	clone := cloneUser(user)
	clone.ID = s.nextID
	if clone.Role == "" {
		clone.Role = domain.RoleUser
	}
	clone.CreatedAt = time.Now().UTC()
	s.users[clone.Username] = clone
	return cloneUser(clone), nil
}

func (s *stubUserStore) role(username string) domain.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[username]; ok {
		return u.Role
	}
	return ""
}

// ---------------------------------------------------------------------------
// In-memory stub session store
// ---------------------------------------------------------------------------

type stubSessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*domain.Session
	seq       int
	createErr error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Create(_ context.Context, user *domain.User) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.seq++
	token := "tok-" + string(rune('a'+s.seq))
	sess := domain.NewSession(token, user, time.Now())
	clone := *sess
	s.sessions[token] = &clone
	return sess, nil
}

func (s *stubSessionStore) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Destroy(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

var errBackend = errors.New("backend unavailable")

func seededStore() *stubUserStore {
	return newStubUserStore(
		&domain.User{Username: "admin", Secret: "admin", Role: domain.RoleAdmin},
		&domain.User{Username: "carlos", Secret: "carlos", Role: domain.RoleUser},
		&domain.User{Username: "wiener", Secret: "peter", Role: domain.RoleUser},
	)
}
