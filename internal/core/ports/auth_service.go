package ports

import (
	"context"

	"github.com/99minutos/authgate/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, secret string) (*domain.Session, error)
	Signup(ctx context.Context, username, secret string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
}

// Gate is the authorization check applied to protected routes. It only ever
// consults session state.
type Gate interface {
	RequireSession(ctx context.Context, token string) (*domain.Session, error)
	RequireRole(session *domain.Session, required domain.Role) error
}

type UserService interface {
	Profile(ctx context.Context, session *domain.Session) (*domain.User, error)
	Directory(ctx context.Context) ([]*domain.User, error)
}
