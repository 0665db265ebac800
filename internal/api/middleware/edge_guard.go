package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// guarded reports whether the edge guard evaluates path.
func guarded(path string) bool {
	return path == domain.RootPath || path == domain.LoginPath || domain.IsAdminPath(path)
}

// EdgeGuard gates navigation using only the session copy carried in the
// user cookie. It never touches the durable backend.
func EdgeGuard(log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if !guarded(path) {
				return next(c)
			}

			sess, err := session.ReadCookie(c.Request())
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("dropping unreadable session cookie")
				session.ClearCookie(c.Response())
				return c.Redirect(http.StatusFound, domain.LoginPath)
			}

			hasSession := sess != nil
			isAdmin := hasSession && sess.IsAdmin()

			switch domain.DecideRoute(path, hasSession, isAdmin) {
			case domain.RouteRedirectLogin:
				return c.Redirect(http.StatusFound, domain.LoginPath)
			case domain.RouteRedirectLoginClearSession:
				session.ClearCookie(c.Response())
				return c.Redirect(http.StatusFound, domain.LoginPath)
			case domain.RouteRedirectAdminHome:
				return c.Redirect(http.StatusFound, domain.AdminHome)
			}
			return next(c)
		}
	}
}
