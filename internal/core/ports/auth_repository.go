package ports

import (
	"context"

	"github.com/99minutos/authgate/internal/core/domain"
)

// CredentialStore is the CRUD surface over persisted users. It carries no
// policy; callers decide what a missing row means.
type CredentialStore interface {
	// VerifyCredentials returns the user whose username and secret both match
	// exactly, or domain.ErrUserNotFound.
	VerifyCredentials(ctx context.Context, username, secret string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// List returns every user ordered by username ascending.
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateRole sets the role of the named user. Zero affected rows is not
	// an error.
	UpdateRole(ctx context.Context, username string, role domain.Role) error
	// Create inserts a user, defaulting the role to domain.RoleUser. A
	// uniqueness violation is reported as domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// SessionStore holds active sessions keyed by token.
type SessionStore interface {
	Create(ctx context.Context, user *domain.User) (*domain.Session, error)
	// Get returns domain.ErrSessionNotFound for unknown tokens.
	Get(ctx context.Context, token string) (*domain.Session, error)
	// Destroy is idempotent.
	Destroy(ctx context.Context, token string) error
}

// Pinger is implemented by backends that can report their own liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
