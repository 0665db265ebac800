package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// Session opens the caller's session handle and stores it in the request
// context. Nothing is read from the backend until someone hydrates it.
func Session(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			h := store.Open(c.Response(), req)
			c.SetRequest(req.WithContext(session.WithHandle(req.Context(), h)))
			return next(c)
		}
	}
}
