package ports

import (
	"context"

	"github.com/99minutos/authgate/internal/core/domain"
)

// OriginProof carries whatever the client presented to vouch for the
// request's origin.
type OriginProof struct {
	Referer string
	Token   string
}

// OriginGuard decides whether a role mutation request came from the admin
// page. Issue returns the value the admin page embeds in its form, which may
// be empty for guards that do not need one.
type OriginGuard interface {
	Issue(session *domain.Session) (string, error)
	Verify(session *domain.Session, proof OriginProof) error
}

// RoleChangeInput is a single role mutation request.
type RoleChangeInput struct {
	TargetUsername string
	Action         domain.RoleAction
	Proof          OriginProof
}

type RoleService interface {
	ChangeRole(ctx context.Context, session *domain.Session, in RoleChangeInput) (domain.Role, error)
	AntiForgeryToken(session *domain.Session) (string, error)
}
