package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// ctxSession returns the session handle opened by the Session middleware.
// The admin gate has already hydrated it on every /admin route.
func ctxSession(c echo.Context) (*session.Handle, error) {
	h := session.FromContext(c.Request().Context())
	if h == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return h, nil
}

// newPage fills the fields shared by every template.
func newPage(c echo.Context, title, nav string, notices []domain.Notice, data any) view.Page {
	p := view.Page{Title: title, Nav: nav, Notices: notices, Data: data}
	p.CSRF, _ = c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	if h := session.FromContext(c.Request().Context()); h != nil {
		if s, ok := h.User(); ok {
			p.User = &s
		}
	}
	return p
}

// actionStatus is the status of a page re-rendered after a form submit.
func actionStatus(err error) int {
	if err != nil {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
