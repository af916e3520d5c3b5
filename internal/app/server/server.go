package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/benefits"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/org"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/tax"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/metrics"
	"hrms/internal/requestctx"
	"hrms/internal/transport/http/api"
	authhandler "hrms/internal/transport/http/handlers/auth"
	benefitshandler "hrms/internal/transport/http/handlers/benefits"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	orghandler "hrms/internal/transport/http/handlers/org"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	taxhandler "hrms/internal/transport/http/handlers/tax"
	"hrms/internal/transport/http/middleware"
)

// Run wires configuration, database, services, and routes, then serves
// until the process exits.
func Run() error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", slog.String("dir", cfg.MigrationsDir))
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()

	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)
	orgStore := org.NewStore(pool)
	taxSvc := tax.NewService(tax.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool))
	benefitsSvc := benefits.NewService(benefits.NewStore(pool))
	payrollSvc := payroll.NewService(payroll.NewStore(pool), taxSvc, leaveSvc, benefitsSvc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger, collector))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.Authenticate(authSvc))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		api.Success(w, map[string]any{"status": "ok"}, requestctx.GetRequestID(req.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		if err := pool.Ping(req.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable",
				requestctx.GetRequestID(req.Context()))
			return
		}
		api.Success(w, map[string]any{"status": "ready"}, requestctx.GetRequestID(req.Context()))
	})
	if cfg.MetricsEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
			api.Success(w, collector.Snapshot(), requestctx.GetRequestID(req.Context()))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			orghandler.NewHandler(orgStore).RegisterRoutes(r)
			payrollhandler.NewHandler(payrollSvc, collector).RegisterRoutes(r)
			taxhandler.NewHandler(taxSvc).RegisterRoutes(r)
			leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
			benefitshandler.NewHandler(benefitsSvc).RegisterRoutes(r)
		})
	})

	logger.Info("server listening", slog.String("addr", cfg.Addr), slog.String("env", cfg.Environment))
	return http.ListenAndServe(cfg.Addr, r)
}
