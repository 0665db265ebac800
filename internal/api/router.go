package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tiendamonedas/admin-dashboard/internal/api/handler"
	"github.com/tiendamonedas/admin-dashboard/internal/api/metrics"
	"github.com/tiendamonedas/admin-dashboard/internal/api/middleware"
	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
	"github.com/tiendamonedas/admin-dashboard/internal/core/service"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
)

// Deps is everything the router wires into handlers and middleware.
type Deps struct {
	Log      zerolog.Logger
	Sessions *session.Store
	Busy     ports.BusyGuard

	Auth    ports.AuthClient
	Users   ports.UserClient
	Catalog ports.CatalogClient
	Orders  ports.OrderClient
	Images  ports.ImageUploader

	// Ready lists the dependencies checked by /health/ready.
	Ready map[string]handler.Pinger

	HydrateWait  time.Duration
	CookieSecure bool
	LoginRate    rate.Limit
	LoginBurst   int

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.HydrateWait <= 0 {
		d.HydrateWait = 2 * time.Second
	}
	if d.LoginRate <= 0 {
		d.LoginRate = rate.Every(5 * time.Second)
	}
	if d.LoginBurst < 1 {
		d.LoginBurst = 5
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.BodyLimit("10M"))
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "dashboard_http",
		Registerer: d.Registerer,
	}))
	e.Use(echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
		TokenLookup:    "form:_csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   d.CookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(middleware.Session(d.Sessions))
	e.Use(middleware.EdgeGuard(d.Log))

	// --- Health probes and metrics ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Ready).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))

	// --- Auth ---
	authHandler := handler.NewAuthHandler(service.NewAuthService(d.Auth, d.Log), d.Log)
	loginLimiter := echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
			Rate:      d.LoginRate,
			Burst:     d.LoginBurst,
			ExpiresIn: 10 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			metrics.LoginAttemptsTotal.WithLabelValues("rate_limited").Inc()
			return echo.NewHTTPError(http.StatusTooManyRequests, "Demasiados intentos. Espera un momento.")
		},
	})

	e.GET("/", authHandler.Root)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login, loginLimiter)
	e.POST("/logout", authHandler.Logout)

	// --- Admin area ---
	admin := e.Group("/admin", middleware.AdminGate(d.HydrateWait), middleware.InFlight(d.Busy, d.Log))
	admin.GET("", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/admin/usuarios")
	})

	users := handler.NewUserHandler(d.Users, d.Log)
	admin.GET("/usuarios", users.List)
	admin.POST("/usuarios", users.Create)
	admin.GET("/usuarios/:id", users.Detail)
	admin.POST("/usuarios/:id/recargar", users.Recharge)
	admin.POST("/usuarios/:id/reset-password", users.ResetPassword)

	catalog := handler.NewCatalogHandler(d.Catalog, d.Images, d.Log)
	admin.GET("/servicios", catalog.List)
	admin.POST("/servicios", catalog.Create)
	admin.POST("/servicios/:id", catalog.Update)
	admin.POST("/servicios/:id/eliminar", catalog.Delete)
	admin.POST("/imagenes", catalog.UploadImage)

	orders := handler.NewOrderHandler(d.Orders, d.Log)
	admin.GET("/ordenes", orders.List)
	admin.POST("/ordenes/:id/estado", orders.SetStatus)
	admin.POST("/ordenes/:id/entrega", orders.AttachDelivery)
	admin.POST("/ordenes/:id/eliminar", orders.Delete)

	return e, nil
}
