package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/ports"
	"github.com/99minutos/authgate/internal/core/service"
	mongostore "github.com/99minutos/authgate/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/authgate/internal/infrastructure/db/redis"
	"github.com/99minutos/authgate/internal/infrastructure/db/sqlite"
	"github.com/99minutos/authgate/internal/infrastructure/session"
	"github.com/99minutos/authgate/internal/pkg/config"
)

// backends holds the stores selected by configuration and how to release
// them.
type backends struct {
	users    ports.CredentialStore
	sessions ports.SessionStore
	pingers  map[string]ports.Pinger
	closers  []func(context.Context) error
}

func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (b *backends, err error) {
	b = &backends{pingers: make(map[string]ports.Pinger)}
	defer func() {
		if err != nil {
			_ = b.Close(context.Background())
		}
	}()

	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.SQLite.Path, Debug: cfg.LogLevel == "debug"})
		if err != nil {
			return b, fmt.Errorf("open sqlite: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return sqlite.Close(db) })
		store := sqlite.NewUserStore(db)
		b.users, b.pingers["users"] = store, store
		log.Info().Str("path", cfg.SQLite.Path).Msg("credential store: sqlite")

	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return b, fmt.Errorf("connect mongo: %w", err)
		}
		b.closers = append(b.closers, client.Disconnect)
		store := mongostore.NewUserStore(db)
		if err := store.EnsureIndexes(ctx); err != nil {
			return b, fmt.Errorf("mongo indexes: %w", err)
		}
		b.users, b.pingers["users"] = store, store
		log.Info().Str("database", cfg.Mongo.Database).Msg("credential store: mongo")
	}

	switch cfg.SessionBackend {
	case config.SessionsMemory:
		b.sessions = session.NewMemoryStore()
		log.Info().Msg("session backend: memory")

	case config.SessionsRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return b, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })
		store := redisstore.NewSessionStore(client)
		b.sessions, b.pingers["sessions"] = store, store
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session backend: redis")
	}

	return b, nil
}

// Close releases backends in reverse order of opening.
func (b *backends) Close(ctx context.Context) error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func originGuard(cfg *config.Config) ports.OriginGuard {
	if cfg.Auth.OriginCheck == config.OriginToken {
		return service.NewTokenGuard(cfg.Auth.CSRFSecret, cfg.Auth.CSRFTTL)
	}
	return service.NewRefererGuard(cfg.Auth.AdminPath)
}
