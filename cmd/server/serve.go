package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/iliyamo/fyyur/internal/cache"
	"github.com/iliyamo/fyyur/internal/config"
	"github.com/iliyamo/fyyur/internal/database"
	"github.com/iliyamo/fyyur/internal/handler"
	"github.com/iliyamo/fyyur/internal/logging"
	"github.com/iliyamo/fyyur/internal/middleware"
	"github.com/iliyamo/fyyur/internal/queue"
	"github.com/iliyamo/fyyur/internal/repository"
	"github.com/iliyamo/fyyur/internal/router"
	"github.com/iliyamo/fyyur/internal/session"
	"github.com/iliyamo/fyyur/internal/view"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web application (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if migrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logging.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable, caching and rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	sessions := session.NewManager(cfg.Session.Secret, cfg.App.Env == "prod")
	renderer, err := view.New(sessions)
	if err != nil {
		return err
	}

	h := handler.NewHandler(
		repository.NewVenueRepo(db),
		repository.NewArtistRepo(db),
		repository.NewShowRepo(db),
		repository.NewAlbumRepo(db),
		sessions,
	)
	if rdb != nil {
		h.Cache = cache.New(cfg.Cache, rdb)
	}
	h.Events = queue.NewPublisher(cfg.Events)

	e := echo.New()
	router.Setup(e, renderer)
	router.RegisterOps(e, db)
	router.RegisterRoutes(e, h, middleware.NewTokenBucket(cfg.RateLimit, rdb))

	return serve(ctx, e, ":"+cfg.App.Port, cfg.App.Env)
}

// serve runs e until SIGINT/SIGTERM, then drains in-flight requests for up
// to ten seconds.
func serve(ctx context.Context, e *echo.Echo, addr, env string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Str("env", env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(sctx)
}
