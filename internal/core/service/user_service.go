package service

import (
	"context"
	"fmt"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// UserService serves read-only views over the credential store.
type UserService struct {
	users ports.CredentialStore
}

func NewUserService(users ports.CredentialStore) *UserService {
	return &UserService{users: users}
}

// Profile re-reads the session's user. A user removed after login yields
// domain.ErrUserNotFound.
func (s *UserService) Profile(ctx context.Context, session *domain.Session) (*domain.User, error) {
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.FindByID(ctx, session.UserID)
}

// Directory lists every user ordered by username.
func (s *UserService) Directory(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
