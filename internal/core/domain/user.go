package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role is the single authorization level held by a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// RoleAction is the verb accepted by the role mutation workflow.
type RoleAction string

const (
	ActionUpgrade   RoleAction = "upgrade"
	ActionDowngrade RoleAction = "downgrade"
)

// TargetRole maps an action onto the role it assigns.
func (a RoleAction) TargetRole() (Role, bool) {
	switch a {
	case ActionUpgrade:
		return RoleAdmin, true
	case ActionDowngrade:
		return RoleUser, true
	default:
		return "", false
	}
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")

	ErrInvalidOrigin    = fmt.Errorf("%w: origin check failed", ErrForbidden)
	ErrInvalidAction    = fmt.Errorf("%w: unknown role action", ErrForbidden)
	ErrProtectedAccount = fmt.Errorf("%w: account role is immutable", ErrForbidden)
)

// User is a persisted account. Secret is compared verbatim at login.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Secret    string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin reports whether the stored role is admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
