package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

const busyTTL = 30 * time.Second

// InFlight refuses a mutating request while an identical one from the same
// session is still outstanding. A guard that cannot be reached lets the
// request through.
func InFlight(guard ports.BusyGuard, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodPost {
				return next(c)
			}

			sid := ""
			if ck, err := c.Cookie(session.HandleCookie); err == nil {
				sid = ck.Value
			}
			key := "busy:" + sid + ":" + c.Path() + ":" + c.Param("id")

			ctx := c.Request().Context()
			ok, err := guard.Acquire(ctx, key, busyTTL)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("busy guard unavailable")
				return next(c)
			}
			if !ok {
				metrics.BusyRejectionsTotal.WithLabelValues(c.Path()).Inc()
				return echo.NewHTTPError(http.StatusConflict, service.ErrBusy.Message)
			}
			defer func() {
				if err := guard.Release(context.WithoutCancel(ctx), key); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("failed to release busy guard")
				}
			}()

			return next(c)
		}
	}
}
