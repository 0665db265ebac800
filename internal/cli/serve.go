package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/tiendamonedas/admin-dashboard/internal/api"
	"github.com/tiendamonedas/admin-dashboard/internal/api/handler"
	"github.com/tiendamonedas/admin-dashboard/internal/core/ports"
	"github.com/tiendamonedas/admin-dashboard/internal/infrastructure/apiclient"
	"github.com/tiendamonedas/admin-dashboard/internal/infrastructure/db/memory"
	mongodb "github.com/tiendamonedas/admin-dashboard/internal/infrastructure/db/mongo"
	redisdb "github.com/tiendamonedas/admin-dashboard/internal/infrastructure/db/redis"
	"github.com/tiendamonedas/admin-dashboard/internal/infrastructure/imagehost"
	"github.com/tiendamonedas/admin-dashboard/internal/pkg/config"
	"github.com/tiendamonedas/admin-dashboard/internal/session"
	"github.com/tiendamonedas/admin-dashboard/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
			return serve(ctx, cfg, log)
		},
	}
}

// backends are the session store and busy guard picked by SESSION_BACKEND.
type backends struct {
	sessions ports.SessionBackend
	busy     ports.BusyGuard
	close    func(context.Context) error
}

func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	switch cfg.Session.Backend {
	case "redis":
		rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session backend: redis")
		return &backends{
			sessions: redisdb.NewSessionBackend(rdb),
			busy:     redisdb.NewBusyGuard(rdb),
			close:    func(context.Context) error { return rdb.Close() },
		}, nil

	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewSessionRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("session backend: mongo")
		return &backends{
			sessions: repo,
			busy:     memory.NewStore(),
			close:    client.Disconnect,
		}, nil

	default:
		log.Warn().Msg("session backend: memory, sessions are lost on restart")
		mem := memory.NewStore()
		return &backends{sessions: mem, busy: mem, close: func(context.Context) error { return nil }}, nil
	}
}

// apiPinger reports the remote API as ready when it answers at all.
type apiPinger struct{ gw *apiclient.Gateway }

func (p apiPinger) Ping(ctx context.Context) error {
	_, err := p.gw.Probe(ctx, "/")
	return err
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	be, err := openBackends(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("serve: session backend: %w", err)
	}
	defer func() {
		if err := be.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing session backend")
		}
	}()

	store := session.NewStore(be.sessions, session.Options{
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.CookieSecure,
	}, log)

	gw := apiclient.New(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Tokens:  session.TokenFromContext,
	}, log)

	e, err := api.NewRouter(api.Deps{
		Log:      log,
		Sessions: store,
		Busy:     be.busy,
		Auth:     apiclient.NewAuthClient(gw),
		Users:    apiclient.NewUserClient(gw),
		Catalog:  apiclient.NewCatalogClient(gw),
		Orders:   apiclient.NewOrderClient(gw),
		Images: imagehost.NewUploader(imagehost.Config{
			BaseURL:   cfg.Images.UploadURL,
			CloudName: cfg.Images.CloudName,
			Preset:    cfg.Images.Preset,
		}, log),
		Ready: map[string]handler.Pinger{
			"session_store": store,
			"api":           apiPinger{gw: gw},
		},
		HydrateWait:  cfg.Session.HydrateWait,
		CookieSecure: cfg.Session.CookieSecure,
		LoginRate:    rate.Limit(cfg.LoginRate.Rate),
		LoginBurst:   cfg.LoginRate.Burst,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("api", gw.BaseURL()).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
