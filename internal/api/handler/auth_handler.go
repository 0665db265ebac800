package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
)

// AuthHandler serves the root redirect, the login form and logout.
type AuthHandler struct {
	auth *service.AuthService
	log  zerolog.Logger
}

func NewAuthHandler(auth *service.AuthService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type loginPage struct {
	Email   string
	Message string
}

// Root handles GET /. Administrators go to the admin home, anyone else to
// the login page.
func (h *AuthHandler) Root(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	sess.Hydrate(c.Request().Context())
	if sess.IsAdmin() {
		return c.Redirect(http.StatusFound, domain.AdminHome)
	}
	return c.Redirect(http.StatusFound, domain.LoginPath)
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, view.PageLogin, newPage(c, "Iniciar sesión", "", nil, loginPage{}))
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "formulario inválido")
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	res := h.auth.SignIn(c.Request().Context(), sess, form.Email, form.Password)
	if res.Redirect != "" {
		return c.Redirect(http.StatusSeeOther, res.Redirect)
	}

	status := http.StatusUnauthorized
	if res.Message == service.MsgNotAdmin {
		status = http.StatusForbidden
	}
	return c.Render(status, view.PageLogin, newPage(c, "Iniciar sesión", "", nil, loginPage{
		Email:   form.Email,
		Message: res.Message,
	}))
}

// Logout handles POST /logout. The credential is not revoked remotely.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Request().Context()); err != nil {
		h.log.Warn().Err(err).Msg("logout failed to clear the durable record")
	}
	return c.Redirect(http.StatusSeeOther, domain.LoginPath)
}
