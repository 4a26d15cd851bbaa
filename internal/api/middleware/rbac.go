package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// RequireRole enforces the session's role snapshot. It must run after
// RequireSession.
func RequireRole(gate ports.Gate, role domain.Role, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := gate.RequireRole(SessionFrom(c), role); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					m.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				}
				return err
			}
			return next(c)
		}
	}
}
