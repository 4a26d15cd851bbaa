package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/core/domain"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	jar := newJar()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, secret string) (*domain.Session, error) {
			if username != "wiener" || secret != "peter" {
				t.Fatalf("unexpected args: %s %s", username, secret)
			}
			return &domain.Session{Token: "tok-1", UserID: 2, RoleSnapshot: domain.RoleUser, CreatedAt: time.Now()}, nil
		},
	}
	handler := NewAuthHandler(stub, jar, metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/login", "username=wiener&password=peter"), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/profile" {
		t.Fatalf("expected redirect to /profile, got %q", loc)
	}

	// The issued cookie must round-trip through the jar to the same token.
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	if got := jar.Token(req); got != "tok-1" {
		t.Fatalf("expected cookie to carry tok-1, got %q", got)
	}
}

func TestAuthHandler_Login_AcceptsSecretField(t *testing.T) {
	e := newEcho()
	var gotSecret string
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, secret string) (*domain.Session, error) {
			gotSecret = secret
			return &domain.Session{Token: "tok"}, nil
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/login", "username=carlos&secret=carlos"), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotSecret != "carlos" {
		t.Fatalf("expected secret field to be used, got %q", gotSecret)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, username, secret string) (*domain.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/login", "username=wiener&password=nope"), rec)

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be set on failed login")
	}
}

func TestAuthHandler_SignupPage_Renders(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/signup", nil), rec)

	if err := handler.SignupPage(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/signup"`) {
		t.Fatalf("unexpected signup page: %d %s", rec.Code, rec.Body.String())
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, username, secret string) (*domain.User, error) {
			if username != "dave" || secret != "pw" {
				t.Fatalf("unexpected args: %s %s", username, secret)
			}
			return &domain.User{ID: 4, Username: username, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/signup", "username=dave&password=pw"), rec)

	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestAuthHandler_Signup_ValidationError(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, username, secret string) (*domain.User, error) {
			t.Fatalf("service must not be called on invalid input")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	for _, body := range []string{"", "username=dave", "password=pw", "username=" + strings.Repeat("x", 65) + "&password=pw"} {
		rec := httptest.NewRecorder()
		c := e.NewContext(formRequest(http.MethodPost, "/signup", body), rec)

		err := handler.Signup(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 HTTPError, got %v", body, err)
		}
	}
}

func TestAuthHandler_Signup_UserExists(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		signupFn: func(ctx context.Context, username, secret string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(formRequest(http.MethodPost, "/signup", "username=wiener&password=x"), rec)

	if err := handler.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	var destroyed string
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			destroyed = token
			return nil
		},
	}
	handler := NewAuthHandler(stub, newJar(), metrics.Nop())

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/logout", nil), rec)
	withSession(t, c, userSession(2, domain.RoleUser))

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if destroyed != "tok" {
		t.Fatalf("expected session tok to be destroyed, got %q", destroyed)
	}
	if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected redirect to /login, got %d", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected an expiring cookie, got %+v", cookies)
	}
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	e := newEcho()
	handler := NewAuthHandler(&stubAuthService{}, newJar(), metrics.Nop())

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/logout", nil), httptest.NewRecorder())

	if err := handler.Logout(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
