package domain

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Session binds an opaque token to a user and the role that user held at
// login. RoleSnapshot is never refreshed from the credential store; a role
// change only reaches a session after the user logs in again.
type Session struct {
	Token        string    `json:"-"`
	UserID       int64     `json:"user_id"`
	RoleSnapshot Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewSession captures the user's identity and current role.
func NewSession(token string, user *User, now time.Time) *Session {
	return &Session{
		Token:        token,
		UserID:       user.ID,
		RoleSnapshot: user.Role,
		CreatedAt:    now,
	}
}
