package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/ems-portal/ems-portal/db/migrations"
	"github.com/ems-portal/ems-portal/internal/activity"
	"github.com/ems-portal/ems-portal/internal/app"
	"github.com/ems-portal/ems-portal/internal/auth"
	"github.com/ems-portal/ems-portal/internal/home"
	jobmetrics "github.com/ems-portal/ems-portal/internal/jobs"
	"github.com/ems-portal/ems-portal/internal/layout"
	"github.com/ems-portal/ems-portal/internal/observability"
	"github.com/ems-portal/ems-portal/internal/platform/cache"
	"github.com/ems-portal/ems-portal/internal/platform/db"
	"github.com/ems-portal/ems-portal/internal/rbac"
	"github.com/ems-portal/ems-portal/internal/shared"
	"github.com/ems-portal/ems-portal/internal/view"
	"github.com/ems-portal/ems-portal/jobs"
)

func main() {
	if app.SkipStartup(nil, "ems") {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg)

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("ems exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *app.Config, logger *slog.Logger) error {
	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	var (
		source   activity.Source
		appender activity.Appender
		pool     *pgxpool.Pool
	)
	switch cfg.LogSource {
	case app.LogSourcePostgres:
		pool, err = db.New(ctx, cfg.Postgres())
		if err != nil {
			return err
		}
		defer pool.Close()
		if cfg.PGMigrate {
			applied, err := db.Migrate(ctx, pool, migrations.Files)
			if err != nil {
				return err
			}
			logger.Info("migrations applied", slog.Any("versions", applied))
		}
		pg := activity.NewPostgresSource(pool, cfg.ActivityLimit)
		source, appender = pg, pg
	default:
		mem := activity.NewMemorySource(activity.MockRecords())
		source, appender = mem, mem
	}

	var (
		recorder   activity.Recorder = activity.NewStoreRecorder(appender)
		jobHandler *jobs.Handler
	)
	if cfg.ActivityAsync {
		redisOpts := cfg.Redis().Queue()
		queue := jobs.NewClient(redisOpts)
		defer func() {
			if err := queue.Close(); err != nil {
				logger.Warn("asynq client close", slog.Any("error", err))
			}
		}()
		inspector := asynq.NewInspector(redisOpts)
		defer func() { _ = inspector.Close() }()
		jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())
		if err := jobMetrics.WatchQueue(jobs.QueueDefault, jobs.QueueProbe(inspector)); err != nil {
			return err
		}
		recorder = jobs.NewActivityEnqueuer(queue, jobMetrics)
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	recorder = metrics.InstrumentRecorder(recorder)

	creds, err := auth.NewStaticCredentials(auth.DemoAccounts(), cfg.BcryptCost)
	if err != nil {
		return err
	}
	templates, err := view.NewEngine()
	if err != nil {
		return err
	}
	sessions := shared.NewSessionManager(redisClient, "ems_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrf := shared.NewCSRFManager(cfg.CSRFSecret)
	shells := layout.NewManager(cfg.SidebarLoadingDelay, cfg.SidebarIdleTTL)

	authHandler := auth.NewHandler(auth.HandlerParams{
		Logger:    logger,
		Service:   auth.NewService(creds),
		Templates: templates,
		Sessions:  sessions,
		CSRF:      csrf,
		Recorder:  recorder,
		Shells:    shells,
		Metrics:   metrics,
	})
	homeHandler := home.NewHandler(home.HandlerParams{
		Logger:    logger,
		Templates: templates,
		CSRF:      csrf,
		Shells:    shells,
		Activity:  activity.NewService(source),
		Auth:      auth.Middleware{Logger: logger},
		RBAC:      rbac.Middleware{Service: rbac.NewService(), Logger: logger},
		Metrics:   metrics,
	})

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessions,
		CSRFManager:    csrf,
		AuthHandler:    authHandler,
		HomeHandler:    homeHandler,
		JobHandler:     jobHandler,
		Metrics:        metrics,
		Ready: func(r *http.Request) error {
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				return err
			}
			if pool != nil {
				return pool.Ping(r.Context())
			}
			return nil
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server",
			slog.String("addr", cfg.AppAddr),
			slog.String("log_source", cfg.LogSource),
			slog.Bool("activity_async", cfg.ActivityAsync))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown", slog.Any("error", err))
		}
		return gctx.Err()
	})
	return g.Wait()
}
