package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// Gate authorizes requests against session state alone. It never reads the
// credential store, so a role change is invisible to already-open sessions.
type Gate struct {
	sessions ports.SessionStore
}

func NewGate(sessions ports.SessionStore) *Gate {
	return &Gate{sessions: sessions}
}

// RequireSession resolves token to an active session or returns
// domain.ErrUnauthenticated.
func (g *Gate) RequireSession(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	session, err := g.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}

// RequireRole compares the session's role snapshot with required.
func (g *Gate) RequireRole(session *domain.Session, required domain.Role) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	if session.RoleSnapshot != required {
		return domain.ErrForbidden
	}
	return nil
}
