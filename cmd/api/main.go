package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/repository/postgresql"
	costRateService "github.com/cmlabs-hris/hris-attendance-metrics/internal/service/costrate"
	reportService "github.com/cmlabs-hris/hris-attendance-metrics/internal/service/report"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	recordRepo := postgresql.NewAttendanceRecordRepository(db)
	costRateRepo := postgresql.NewCostRateRepository(db)

	hub := sse.NewHub(10)
	store := reportService.NewSnapshotStore(recordRepo)
	store.OnLoad(func(snap *reportService.Snapshot) {
		hub.Publish(sse.TopicSnapshot, sse.Event{Name: "snapshot", Data: snap.Info()})
	})
	if _, err := store.Refresh(ctx); err != nil {
		// Report endpoints answer 503 until a scheduled refresh succeeds.
		slog.Error("initial attendance snapshot failed", "error", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unreachable, report cache disabled", "addr", cfg.Redis.Addr, "error", err)
			rdb = nil
		}
	}

	reportSvc := reportService.NewReportService(store, costRateRepo, rdb, reportService.Config{
		DefaultRate: cfg.Metrics.DefaultRate,
		CacheTTL:    cfg.Metrics.CacheTTL,
	})
	costRateSvc := costRateService.NewCostRateService(db, costRateRepo, store)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	var limiter *middleware.ClientRateLimiter
	if cfg.Metrics.RateLimit > 0 {
		limiter = middleware.NewClientRateLimiter(rate.Limit(cfg.Metrics.RateLimit), cfg.Metrics.RateBurst)
	}

	reportHandler := appHTTP.NewReportHandler(reportSvc)
	costRateHandler := appHTTP.NewCostRateHandler(costRateSvc)
	eventHandler := appHTTP.NewEventHandler(hub)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Environment:    cfg.App.Env,
		AllowedOrigins: cfg.App.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
		RateLimiter:    limiter,
	}, JWTService, reportHandler, costRateHandler, eventHandler)

	scheduler := cron.NewScheduler()
	scheduler.AddJob("refresh_attendance_snapshot", cfg.Metrics.RefreshInterval, func(ctx context.Context) error {
		_, err := store.Refresh(ctx)
		return err
	}, cron.WithTimeout(cfg.Metrics.RefreshTimeout))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
