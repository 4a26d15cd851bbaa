package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/99minutos/authgate/internal/api"
	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/api/middleware"
	"github.com/99minutos/authgate/internal/core/service"
	"github.com/99minutos/authgate/internal/pkg/config"
	"github.com/99minutos/authgate/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server with the login, profile and admin pages.

The server shuts down gracefully on SIGTERM or SIGINT, draining in-flight
requests before closing the credential store and session backend.

Example:
  # Start with settings from the environment / .env
  authgate serve

  # Override the port
  authgate serve --port 3000`,
	RunE: runServe,
}

var (
	servePort            string
	serveShutdownTimeout time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 10*time.Second, "Maximum time to wait for connections to drain during shutdown")

	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads an optional .env file, then the environment.
func loadConfig(ctx context.Context) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return config.Parse(ctx)
}

func initLogger(cfg *config.Config) zerolog.Logger {
	return logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "authgate",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	log := initLogger(cfg)

	b, err := openBackends(ctx, cfg, logger.Component("backends"))
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close backends")
		}
	}()

	if cfg.SeedOnStart {
		created, err := service.Seed(ctx, b.users, service.DefaultSeed(cfg.Auth.BootstrapAdmin), logger.Component("seed"))
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Int("created", created).Msg("seed complete")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	authLog := logger.Component("auth")
	e := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(b.users, b.sessions, authLog),
		Gate:      service.NewGate(b.sessions),
		Users:     service.NewUserService(b.users),
		Roles:     service.NewRoleService(b.users, originGuard(cfg), cfg.Auth.BootstrapAdmin, logger.Component("roles")),
		Cookies:   middleware.NewCookieJar(cfg.Auth.SessionCookie, []byte(cfg.Auth.SessionSecret)),
		Registry:  registry,
		Metrics:   metrics.New(registry),
		Pingers:   b.pingers,
		Logger:    logger.Component("http"),
		AdminPath: cfg.Auth.AdminPath,
	})

	addr := ":" + cfg.Port
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("origin_check", cfg.Auth.OriginCheck).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		log.Info().Msg("initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		log.Info().Msg("server stopped gracefully")
		return nil
	}
}
