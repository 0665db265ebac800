package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// AdminGate is the second check on the admin area, made against the
// durable session rather than the cookie copy. While the backend has not
// answered within wait, the caller gets the "verifying access" page, which
// reloads itself; protected content is never rendered before the check.
func AdminGate(wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := session.FromContext(c.Request().Context())
			if h == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
			}

			if !hydrateWithin(c.Request().Context(), h, wait) {
				h.Detach()
				c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
				csrf, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
				return c.Render(http.StatusOK, view.PageLoading, view.Page{Title: "Verificando acceso", CSRF: csrf})
			}

			if !h.IsAdmin() {
				// A stale admin copy would send /login straight back here.
				session.ClearCookie(c.Response())
				return c.Redirect(http.StatusFound, domain.LoginPath)
			}
			return next(c)
		}
	}
}

// hydrateWithin reports whether hydration finished before wait elapsed.
// The hydration itself keeps running with its own deadline.
func hydrateWithin(ctx context.Context, h *session.Handle, wait time.Duration) bool {
	done := make(chan struct{})
	go func() {
		defer close(done)
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		h.Hydrate(hctx)
	}()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
