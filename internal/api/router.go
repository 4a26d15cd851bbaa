// @title        authgate
// @version      1.0
// @description  Session-based login with user and admin roles.
// @BasePath     /
package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/authgate/internal/api/docs"
	"github.com/99minutos/authgate/internal/api/handler"
	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/api/middleware"
	"github.com/99minutos/authgate/internal/api/view"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Auth    ports.AuthService
	Gate    ports.Gate
	Users   ports.UserService
	Roles   ports.RoleService
	Cookies *middleware.CookieJar
	// Registry backs both the custom metrics and /metrics.
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	Pingers   map[string]ports.Pinger
	Logger    zerolog.Logger
	AdminPath string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New(d.Registry)
	}
	if d.AdminPath == "" {
		d.AdminPath = "/admin"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)
	e.Renderer = view.MustRenderer()
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: d.Registry,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Cookies, d.Metrics)
	userHandler := handler.NewUserHandler(d.Users, d.Roles, d.Metrics, d.AdminPath)
	healthHandler := handler.NewHealthHandler(d.Pingers)

	requireSession := middleware.RequireSession(d.Gate, d.Cookies, d.Metrics)
	requireAdmin := middleware.RequireRole(d.Gate, domain.RoleAdmin, d.Metrics)

	// --- Public routes ---
	e.GET("/", userHandler.Index)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	for _, path := range []string{"/signup", "/singup"} {
		e.GET(path, authHandler.SignupPage)
		e.POST(path, authHandler.Signup)
	}

	// --- Session routes ---
	e.GET("/logout", authHandler.Logout, requireSession)
	e.GET("/profile", userHandler.Profile, requireSession)
	e.GET(d.AdminPath, userHandler.Admin, requireSession, requireAdmin)

	// Role mutation is reachable by any session; the origin guard in the
	// role service is the only check.
	roleMethods := []string{http.MethodGet, http.MethodPost}
	e.Match(roleMethods, "/admin-roles", userHandler.ChangeRole, requireSession)
	e.Match(roleMethods, "/update", userHandler.ChangeRole, requireSession)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Registry}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
