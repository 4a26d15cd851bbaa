package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/authgate/internal/core/domain"
)

const loginPath = "/login"

type errorResponse struct {
	Error string `json:"error"`
}

// errorPage feeds the "error" template for browser clients.
type errorPage struct {
	Title   string
	Status  int
	Message string
	User    any
}

// knownErrors maps domain sentinels to responses. ErrForbidden covers every
// refinement so clients never learn which policy check failed.
var knownErrors = []struct {
	target error
	code   int
	msg    string
}{
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
	{domain.ErrUserExists, http.StatusBadRequest, "user already exists"},
}

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler for the service.
// Unauthenticated requests are redirected to the login page. Other errors are
// answered with an HTML page when the client accepts one and with
// {"error": "<message>"} otherwise.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Redirect(http.StatusFound, loginPath)
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if wantsHTML(c.Request()) && c.Echo().Renderer != nil {
			page := errorPage{Title: http.StatusText(code), Status: code, Message: msg}
			if rerr := c.Render(code, "error", page); rerr == nil {
				return
			}
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, known := range knownErrors {
		if errors.Is(err, known.target) {
			return known.code, known.msg
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
