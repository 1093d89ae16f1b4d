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
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/handler"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/tracing"
	"github.com/aryan0dhankhar/hrautomator/internal/reliability/retry"
	"github.com/aryan0dhankhar/hrautomator/internal/repository"
	"github.com/aryan0dhankhar/hrautomator/internal/service"
	"github.com/aryan0dhankhar/hrautomator/pkg/config"
	"github.com/aryan0dhankhar/hrautomator/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting automation backend",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.EmployeeStore),
	)

	if !cfg.MockMode {
		log.Error("only mock provisioning is available; set MOCK_MODE=true")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log, "hrautomator-backend", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	employees, checks, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open employee store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	provisioning := service.NewProvisioningService(employees, service.MockIdentity{}, service.MockStorage{}, log)
	automationHandler := handler.NewAutomationHandler(provisioning, log)
	healthHandler := handler.NewHealthHandler(checks, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /employees", automationHandler.Employees)
	mux.HandleFunc("POST /onboard", automationHandler.Onboard)
	mux.HandleFunc("POST /offboard", automationHandler.Offboard)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.BackendPort),
		Handler:      otelhttp.NewHandler(metrics.HTTPMetricsMiddleware(mux), "hrautomator-backend"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("backend listening", slog.Int("port", cfg.BackendPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("backend stopped")
}

// openStore connects the configured employee store, retrying while the
// store is still coming up
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (domain.EmployeeRepository, map[string]handler.Checker, func(), error) {
	switch cfg.EmployeeStore {
	case "redis":
		client, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect redis", func(ctx context.Context) (*redis.Client, error) {
			client, err := redis.NewClient(ctx, cfg.RedisURL, log)
			if errors.Is(err, redis.ErrInvalidURL) {
				return nil, retry.Permanent(err)
			}
			return client, err
		})
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() { _ = client.Close() }
		return repository.NewRedisEmployeeRepository(client, log), map[string]handler.Checker{"redis": client}, closeFn, nil

	case "postgres":
		pool, err := retry.Do(ctx, retry.DefaultConfig(), log, "connect postgres", func(ctx context.Context) (*database.ConnectionPool, error) {
			return database.NewConnectionPool(ctx, database.DefaultConfig(cfg.DatabaseURL), log)
		})
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pool.Migrate(ctx); err != nil {
			_ = pool.Close()
			return nil, nil, nil, err
		}
		closeFn := func() { _ = pool.Close() }
		return repository.NewPostgresEmployeeRepository(pool.GetDB(), log), map[string]handler.Checker{"postgres": pool}, closeFn, nil

	default:
		return repository.NewMemoryEmployeeRepository(), map[string]handler.Checker{}, func() {}, nil
	}
}
