package service

import (
	"context"
	"errors"
	"testing"

	"github.com/99minutos/authgate/internal/core/domain"
)

func TestGate_RequireSession(t *testing.T) {
	sessions := newStubSessionStore()
	gate := NewGate(sessions)
	sess, _ := sessions.Create(context.Background(), &domain.User{ID: 1, Role: domain.RoleUser})

	got, err := gate.RequireSession(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("RequireSession: %v", err)
	}
	if got.UserID != 1 {
		t.Fatalf("unexpected session: %+v", got)
	}

	for _, token := range []string{"", "unknown"} {
		if _, err := gate.RequireSession(context.Background(), token); err != domain.ErrUnauthenticated {
			t.Fatalf("token %q: expected ErrUnauthenticated, got %v", token, err)
		}
	}
}

func TestGate_RequireRole(t *testing.T) {
	gate := NewGate(newStubSessionStore())

	admin := &domain.Session{UserID: 1, RoleSnapshot: domain.RoleAdmin}
	user := &domain.Session{UserID: 2, RoleSnapshot: domain.RoleUser}

	if err := gate.RequireRole(admin, domain.RoleAdmin); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := gate.RequireRole(user, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := gate.RequireRole(nil, domain.RoleAdmin); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// The gate decides on the snapshot even after the store has moved on.
func TestGate_SnapshotIgnoresStoreRole(t *testing.T) {
	users := seededStore()
	sessions := newStubSessionStore()
	auth := NewAuthService(users, sessions, discardLogger)
	gate := NewGate(sessions)

	sess, err := auth.Login(context.Background(), "wiener", "peter")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	_ = users.UpdateRole(context.Background(), "wiener", domain.RoleAdmin)

	live, err := gate.RequireSession(context.Background(), sess.Token)
	if err != nil {
		t.Fatalf("RequireSession: %v", err)
	}
	if live.RoleSnapshot != domain.RoleUser {
		t.Fatalf("snapshot changed to %s", live.RoleSnapshot)
	}
	if err := gate.RequireRole(live, domain.RoleAdmin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected stale snapshot to be forbidden, got %v", err)
	}

	fresh, err := auth.Login(context.Background(), "wiener", "peter")
	if err != nil {
		t.Fatalf("re-login: %v", err)
	}
	if err := gate.RequireRole(fresh, domain.RoleAdmin); err != nil {
		t.Fatalf("re-login should pick up admin: %v", err)
	}
}
