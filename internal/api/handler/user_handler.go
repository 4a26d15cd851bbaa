package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/authgate/internal/api/metrics"
	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

const (
	roleUpdatedMessage = "Role updated successfully"
	csrfHeader         = "X-CSRF-Token"
)

type UserHandler struct {
	userService ports.UserService
	roleService ports.RoleService
	metrics     *metrics.Metrics
	adminPath   string
}

func NewUserHandler(userService ports.UserService, roleService ports.RoleService, m *metrics.Metrics, adminPath string) *UserHandler {
	return &UserHandler{
		userService: userService,
		roleService: roleService,
		metrics:     m,
		adminPath:   adminPath,
	}
}

// roleChangeRequest is read from the query string, then from the form body
// on POST. Body values win over query values.
type roleChangeRequest struct {
	Username  string `query:"username" form:"username"`
	Action    string `query:"action" form:"action"`
	CSRFToken string `query:"csrf_token" form:"csrf_token"`
}

// Index renders the landing page.
func (h *UserHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index", pageData{Title: "Home"})
}

// Profile renders the signed-in user's own record.
//
// @Summary      Current user profile
// @Tags         users
// @Produce      html
// @Success      200
// @Failure      302  "Redirect to /login without a session"
// @Failure      404  {object}  map[string]string
// @Router       /profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), session)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "profile", pageData{
		Title:     "Profile",
		User:      user,
		AdminPath: h.adminPath,
	})
}

// Admin renders the user directory with upgrade and downgrade controls.
//
// @Summary      Admin panel
// @Tags         admin
// @Produce      html
// @Param        success  query  string  false  "Flash message"
// @Success      200
// @Failure      302  "Redirect to /login without a session"
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *UserHandler) Admin(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := h.userService.Profile(ctx, session)
	if err != nil {
		return err
	}
	users, err := h.userService.Directory(ctx)
	if err != nil {
		return err
	}
	token, err := h.roleService.AntiForgeryToken(session)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin", pageData{
		Title:     "Admin",
		User:      user,
		Users:     users,
		AdminPath: h.adminPath,
		CSRFToken: token,
		Success:   c.QueryParam("success"),
		Error:     c.QueryParam("error"),
	})
}

// ChangeRole upgrades or downgrades the named user.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       x-www-form-urlencoded
// @Param        username    query  string  true   "Target username"
// @Param        action      query  string  true   "upgrade or downgrade"
// @Param        csrf_token  query  string  false  "Anti-forgery token when the token guard is active"
// @Success      302  "Redirect back to the admin page"
// @Failure      302  "Redirect to /login without a session"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin-roles [get]
// @Router       /admin-roles [post]
// @Router       /update [get]
// @Router       /update [post]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req roleChangeRequest
	// echo's Bind only reads the query string for GET, DELETE and HEAD.
	if c.Request().Method != http.MethodGet {
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	token := req.CSRFToken
	if token == "" {
		token = c.Request().Header.Get(csrfHeader)
	}

	action := domain.RoleAction(req.Action)
	_, err = h.roleService.ChangeRole(c.Request().Context(), session, ports.RoleChangeInput{
		TargetUsername: req.Username,
		Action:         action,
		Proof: ports.OriginProof{
			Referer: c.Request().Referer(),
			Token:   token,
		},
	})
	h.metrics.RoleChangesTotal.WithLabelValues(actionLabel(action), roleChangeResult(err)).Inc()
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			h.metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
		}
		return err
	}

	return c.Redirect(http.StatusFound, h.adminPath+"?success="+url.QueryEscape(roleUpdatedMessage))
}

// actionLabel keeps the metric label set bounded.
func actionLabel(action domain.RoleAction) string {
	if _, ok := action.TargetRole(); ok {
		return string(action)
	}
	return "other"
}

func roleChangeResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "error"
	}
}
