package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfreview/internal/domain/audit"
	"perfreview/internal/domain/notifications"
	"perfreview/internal/domain/performance"
	"perfreview/internal/platform/config"
	"perfreview/internal/platform/db"
	"perfreview/internal/platform/email"
	"perfreview/internal/platform/jobs"
	"perfreview/internal/platform/metrics"
	audithandler "perfreview/internal/transport/http/handlers/audit"
	notificationshandler "perfreview/internal/transport/http/handlers/notifications"
	performancehandler "perfreview/internal/transport/http/handlers/performance"
	"perfreview/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

// App owns the pool, the background job worker and the HTTP router.
type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Reviews *performance.Service
	Audit   *audit.Service
	Jobs    *jobs.Service
}

// Deps are the collaborators the router serves. Nil Audit, Notifier and
// Idempotency disable those side effects.
type Deps struct {
	Reviews       performancehandler.Service
	Jobs          performancehandler.JobRunner
	Audit         performancehandler.Auditor
	AuditLog      audithandler.Service
	Notifier      performancehandler.Notifier
	Notifications notificationshandler.Service
	Idempotency   performancehandler.Idempotency
	Metrics       *metrics.Collector
	Ready         func(ctx context.Context) error
}

// New connects to the database, applies migrations and optional seed data, and
// wires every service behind the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if _, err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	app := &App{Config: cfg, DB: pool}
	app.Reviews = NewReviewService(cfg, pool)
	app.Audit = audit.New(pool)
	app.Jobs = jobs.New(jobs.NewPGRunStore(pool), cfg.JobQueueSize)
	notify := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom)

	deps := Deps{
		Reviews:       app.Reviews,
		Jobs:          app.Jobs,
		Audit:         app.Audit,
		AuditLog:      app.Audit,
		Notifier:      notify,
		Notifications: notify,
		Idempotency:   middleware.NewIdempotencyStore(pool, middleware.DefaultIdempotencyTTL),
		Ready:         pool.Ping,
	}
	if cfg.MetricsEnabled {
		deps.Metrics = metrics.New()
	}
	app.Router = NewRouter(cfg, deps)
	return app, nil
}

// NewReviewService builds the review use cases over the PostgreSQL stores.
func NewReviewService(cfg config.Config, pool *pgxpool.Pool) *performance.Service {
	return performance.NewService(
		performance.NewStore(pool).Stores(),
		performance.WithTeamFanout(cfg.TeamFanoutLimit),
		performance.WithReportsDir(cfg.ReportsDir),
	)
}

func NewRouter(cfg config.Config, deps Deps) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(deps.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Ready(ctx); err != nil {
				slog.Warn("readiness check failed", "err", err)
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Metrics != nil {
		router.Handle(cfg.MetricsPath, deps.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		if cfg.RateLimit > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
			r.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimit, time.Minute))
		}

		reviews := performancehandler.NewHandler(deps.Reviews, deps.Jobs, deps.Audit, deps.Notifier, deps.Idempotency)
		reviews.RegisterRoutes(r)

		if deps.AuditLog != nil {
			audithandler.NewHandler(deps.AuditLog).RegisterRoutes(r)
		}
		if deps.Notifications != nil {
			notificationshandler.NewHandler(deps.Notifications).RegisterRoutes(r)
		}
	})

	return router
}

// Run starts the job worker and serves until ctx is cancelled, then drains
// in-flight requests.
func (a *App) Run(ctx context.Context) error {
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
