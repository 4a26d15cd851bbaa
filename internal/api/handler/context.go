package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/middleware"
	"github.com/99minutos/authgate/internal/core/domain"
)

// ctxSession returns the session injected by the RequireSession middleware.
// A missing session means the route was wired without the middleware; it is
// treated as unauthenticated rather than trusted.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session := middleware.SessionFrom(c)
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// pageData is the context handed to every HTML view.
type pageData struct {
	Title     string
	User      *domain.User
	Users     []*domain.User
	AdminPath string
	CSRFToken string
	Success   string
	Error     string
}
