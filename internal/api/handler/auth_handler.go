package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/api/middleware"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	jar         *middleware.CookieJar
	metrics     *metrics.Metrics
}

func NewAuthHandler(authService ports.AuthService, jar *middleware.CookieJar, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, jar: jar, metrics: m}
}

// credentialsRequest accepts the secret as either "password" (the HTML form)
// or "secret".
type credentialsRequest struct {
	Username string `form:"username" json:"username" validate:"required,max=64,printascii"`
	Password string `form:"password" json:"password" validate:"required_without=Secret"`
	Secret   string `form:"secret" json:"secret" validate:"required_without=Password"`
}

func (r credentialsRequest) secret() string {
	if r.Password != "" {
		return r.Password
	}
	return r.Secret
}

// LoginPage renders the login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /login [get]
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login", pageData{Title: "Login"})
}

// Login verifies credentials and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      302  "Redirect to /profile with the session cookie set"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.secret())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			h.metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	if err := h.jar.Write(c, session.Token); err != nil {
		return err
	}
	h.metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	h.metrics.SessionsCreatedTotal.Inc()

	return c.Redirect(http.StatusFound, "/profile")
}

// SignupPage renders the signup form.
//
// @Summary      Signup form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /signup [get]
func (h *AuthHandler) SignupPage(c echo.Context) error {
	return c.Render(http.StatusOK, "signup", pageData{Title: "Sign up"})
}

// Signup creates an ordinary user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      302  "Redirect to /login"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		h.metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		h.metrics.SignupsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Signup(c.Request().Context(), req.Username, req.secret()); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			h.metrics.SignupsTotal.WithLabelValues("conflict").Inc()
		} else {
			h.metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	h.metrics.SignupsTotal.WithLabelValues("success").Inc()
	return c.Redirect(http.StatusFound, "/login")
}

// Logout destroys the current session.
//
// @Summary      Logout
// @Tags         auth
// @Success      302  "Redirect to /login"
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), session.Token); err != nil {
		return err
	}
	h.metrics.SessionsDestroyedTotal.Inc()
	h.jar.Clear(c)
	return c.Redirect(http.StatusFound, "/login")
}
