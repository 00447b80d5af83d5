package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"github.com/orgball2608/vehicle-listing-feed/internal/extractor"
	"github.com/orgball2608/vehicle-listing-feed/internal/feed"
	"github.com/orgball2608/vehicle-listing-feed/internal/feed/feedimpl"
	"github.com/orgball2608/vehicle-listing-feed/internal/httpapi"
	"github.com/orgball2608/vehicle-listing-feed/internal/migrations"
	repositories "github.com/orgball2608/vehicle-listing-feed/internal/repositories/fx"
	"github.com/orgball2608/vehicle-listing-feed/internal/repositories/vehicle"
	"github.com/orgball2608/vehicle-listing-feed/internal/social/graphimpl"
	"github.com/orgball2608/vehicle-listing-feed/internal/telegram/telegramimpl"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/orgball2608/vehicle-listing-feed/pkg/logger"
	"github.com/orgball2608/vehicle-listing-feed/pkg/pgx"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		graphimpl.NewSources,
		newExtractor,
		telegramimpl.New,
		fx.Annotate(
			feedimpl.New,
			fx.As(new(feed.Service)),
		),
		httpapi.New,
	),
	repositories.Module,
	fx.Invoke(registerMigrations),
	fx.Invoke(run),
)

func newExtractor(cfg *config.Config) *extractor.Extractor {
	return extractor.New(extractor.Options{
		PermalinkBase: cfg.Listings.FacebookPermalinkBase,
		ExtraKeywords: cfg.Listings.ExtraKeywords,
	})
}

func registerMigrations(lc fx.Lifecycle, cfg *config.Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			db, err := sql.Open("postgres", cfg.GetDSN())
			if err != nil {
				return fmt.Errorf("failed to open migration connection: %w", err)
			}
			defer db.Close()

			if err := migrations.Up(ctx, db); err != nil {
				return err
			}
			log.Info("Database migrations applied")
			return nil
		},
	})
}

type runOpts struct {
	fx.In

	LC       fx.Lifecycle
	Logger   logger.Logger
	Config   *config.Config
	Feed     feed.Service
	Vehicles vehicle.Repository
	Server   *httpapi.Server
}

func run(opts runOpts) {
	log := opts.Logger
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.App.Port),
		Handler:           opts.Server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	schedCtx, cancel := context.WithCancel(context.Background())

	opts.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := opts.Vehicles.Initialize(ctx); err != nil {
				return fmt.Errorf("failed to initialize inventory: %w", err)
			}

			if err := opts.Feed.ScheduleRefresh(schedCtx); err != nil {
				return err
			}
			if err := opts.Feed.ScheduleCleanup(schedCtx); err != nil {
				return err
			}

			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
			}
			log.Info("Starting server", "addr", srv.Addr)

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := srv.Shutdown(ctx)
			cancel()
			return errors.Join(err, opts.Feed.Stop())
		},
	})
}
