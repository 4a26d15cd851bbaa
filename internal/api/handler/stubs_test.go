package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/api/middleware"
	"github.com/99minutos/authgate/internal/api/view"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, username, secret string) (*domain.Session, error)
	signupFn func(ctx context.Context, username, secret string) (*domain.User, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Login(ctx context.Context, username, secret string) (*domain.Session, error) {
	return s.loginFn(ctx, username, secret)
}

func (s *stubAuthService) Signup(ctx context.Context, username, secret string) (*domain.User, error) {
	return s.signupFn(ctx, username, secret)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

type stubUserService struct {
	profileFn   func(ctx context.Context, session *domain.Session) (*domain.User, error)
	directoryFn func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubUserService) Profile(ctx context.Context, session *domain.Session) (*domain.User, error) {
	return s.profileFn(ctx, session)
}

func (s *stubUserService) Directory(ctx context.Context) ([]*domain.User, error) {
	return s.directoryFn(ctx)
}

type stubRoleService struct {
	changeFn func(ctx context.Context, session *domain.Session, in ports.RoleChangeInput) (domain.Role, error)
	token    string
}

func (s *stubRoleService) ChangeRole(ctx context.Context, session *domain.Session, in ports.RoleChangeInput) (domain.Role, error) {
	return s.changeFn(ctx, session, in)
}

func (s *stubRoleService) AntiForgeryToken(*domain.Session) (string, error) {
	return s.token, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Renderer = view.MustRenderer()
	e.Validator = NewValidator()
	return e
}

func newJar() *middleware.CookieJar {
	return middleware.NewCookieJar("sid", []byte("0123456789abcdef0123456789abcdef"))
}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// withSession stores session in c the way RequireSession does.
func withSession(t *testing.T, c echo.Context, session *domain.Session) {
	t.Helper()
	gate := sessionGate{session: session}
	mw := middleware.RequireSession(gate, newJar(), metrics.Nop())
	if err := mw(func(echo.Context) error { return nil })(c); err != nil {
		t.Fatalf("inject session: %v", err)
	}
}

type sessionGate struct{ session *domain.Session }

func (g sessionGate) RequireSession(context.Context, string) (*domain.Session, error) {
	return g.session, nil
}

func (g sessionGate) RequireRole(*domain.Session, domain.Role) error { return nil }

func userSession(id int64, role domain.Role) *domain.Session {
	return &domain.Session{Token: "tok", UserID: id, RoleSnapshot: role, CreatedAt: time.Now()}
}
