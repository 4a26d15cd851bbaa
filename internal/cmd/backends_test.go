package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/service"
	"github.com/99minutos/authgate/internal/infrastructure/session"
	"github.com/99minutos/authgate/internal/pkg/config"
)

func TestOpenBackends_SQLiteMemory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StoreDriver:    config.StoreSQLite,
		SessionBackend: config.SessionsMemory,
		SQLite:         config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "users.sqlite")},
	}

	b, err := openBackends(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("open backends: %v", err)
	}
	defer func() {
		if err := b.Close(ctx); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	if _, ok := b.sessions.(*session.MemoryStore); !ok {
		t.Fatalf("expected memory session store, got %T", b.sessions)
	}
	if _, ok := b.pingers["users"]; !ok {
		t.Fatalf("expected users pinger")
	}
	if _, ok := b.pingers["sessions"]; ok {
		t.Fatalf("memory sessions should not be pinged")
	}

	created, err := service.Seed(ctx, b.users, service.DefaultSeed("admin"), zerolog.Nop())
	if err != nil || created != 3 {
		t.Fatalf("seed: created=%d err=%v", created, err)
	}
	if err := b.pingers["users"].Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOriginGuard(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{OriginCheck: config.OriginReferer, AdminPath: "/admin"}}
	if _, ok := originGuard(cfg).(*service.RefererGuard); !ok {
		t.Fatalf("expected referer guard")
	}

	cfg.Auth.OriginCheck = config.OriginToken
	cfg.Auth.CSRFSecret = "s"
	if _, ok := originGuard(cfg).(*service.TokenGuard); !ok {
		t.Fatalf("expected token guard")
	}
}
