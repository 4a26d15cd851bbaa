package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// AuthService implements login, signup and logout.
type AuthService struct {
	users    ports.CredentialStore
	sessions ports.SessionStore
	logger   zerolog.Logger
}

func NewAuthService(users ports.CredentialStore, sessions ports.SessionStore, logger zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, logger: logger}
}

// Login verifies the credentials and opens a session carrying the user's
// current role.
func (s *AuthService) Login(ctx context.Context, username, secret string) (*domain.Session, error) {
	if username == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.VerifyCredentials(ctx, username, secret)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info().Str("username", username).Msg("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	session, err := s.sessions.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(session.RoleSnapshot)).Msg("session opened")
	return session, nil
}

// Signup registers a new ordinary user. The existence pre-check is not
// atomic with the insert; the store's uniqueness constraint settles races.
func (s *AuthService) Signup(ctx context.Context, username, secret string) (*domain.User, error) {
	if username == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Username: username,
		Secret:   secret,
		Role:     domain.RoleUser,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Logout destroys the session. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
