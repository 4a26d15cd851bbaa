package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// RoleService promotes and demotes users.
//
// Any active session may reach it; the origin guard is the only check in
// front of the mutation besides the protected bootstrap account. All
// rejections happen before the store is written.
type RoleService struct {
	users          ports.CredentialStore
	guard          ports.OriginGuard
	bootstrapAdmin string
	logger         zerolog.Logger
}

func NewRoleService(users ports.CredentialStore, guard ports.OriginGuard, bootstrapAdmin string, logger zerolog.Logger) *RoleService {
	return &RoleService{users: users, guard: guard, bootstrapAdmin: bootstrapAdmin, logger: logger}
}

// ChangeRole applies in.Action to in.TargetUsername and returns the role
// written to the store.
func (s *RoleService) ChangeRole(ctx context.Context, session *domain.Session, in ports.RoleChangeInput) (domain.Role, error) {
	if session == nil {
		return "", domain.ErrUnauthenticated
	}

	log := s.logger.With().
		Int64("actor_id", session.UserID).
		Str("target", in.TargetUsername).
		Str("action", string(in.Action)).
		Logger()

	if s.bootstrapAdmin != "" && in.TargetUsername == s.bootstrapAdmin {
		log.Warn().Msg("role change on protected account rejected")
		return "", domain.ErrProtectedAccount
	}

	if err := s.guard.Verify(session, in.Proof); err != nil {
		log.Warn().Str("referer", in.Proof.Referer).Msg("role change origin rejected")
		return "", err
	}

	role, ok := in.Action.TargetRole()
	if !ok {
		log.Warn().Msg("role change action rejected")
		return "", domain.ErrInvalidAction
	}

	if _, err := s.users.FindByUsername(ctx, in.TargetUsername); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
		return "", fmt.Errorf("lookup target: %w", err)
	}

	if err := s.users.UpdateRole(ctx, in.TargetUsername, role); err != nil {
		return "", fmt.Errorf("update role: %w", err)
	}

	log.Info().Str("role", string(role)).Msg("role changed")
	return role, nil
}

// AntiForgeryToken returns the value the admin page embeds in its role
// change form.
func (s *RoleService) AntiForgeryToken(session *domain.Session) (string, error) {
	return s.guard.Issue(session)
}
