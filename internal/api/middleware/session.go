package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

const sessionKey = "session"

// RequireSession resolves the session cookie through the gate and stores the
// session in the context. Requests without an active session fail with
// domain.ErrUnauthenticated.
func RequireSession(gate ports.Gate, jar *CookieJar, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := gate.RequireSession(c.Request().Context(), jar.Token(c.Request()))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					m.AccessDeniedTotal.WithLabelValues("unauthenticated").Inc()
				}
				return err
			}
			c.Set(sessionKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by RequireSession, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	session, _ := c.Get(sessionKey).(*domain.Session)
	return session
}
