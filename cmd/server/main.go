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

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aryan0dhankhar/hrautomator/internal/backendclient"
	"github.com/aryan0dhankhar/hrautomator/internal/directory"
	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/eventlog"
	"github.com/aryan0dhankhar/hrautomator/internal/featureflags"
	"github.com/aryan0dhankhar/hrautomator/internal/handler"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/tracing"
	"github.com/aryan0dhankhar/hrautomator/internal/security/audit"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
	"github.com/aryan0dhankhar/hrautomator/internal/security/middleware"
	"github.com/aryan0dhankhar/hrautomator/internal/security/ratelimit"
	"github.com/aryan0dhankhar/hrautomator/internal/worker"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
	"github.com/aryan0dhankhar/hrautomator/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting HR automator control server",
		slog.String("environment", cfg.Environment),
		slog.String("backend", cfg.APIURL),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Tracing
	shutdownTracing, err := tracing.Init(ctx, log, "hrautomator-server", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Controller state
	backend := backendclient.New(cfg.APIURL, log)
	auditLogger := audit.NewLogger(log)
	dir := directory.New(backend, log)
	dispatcher := workflow.NewDispatcher(
		backend,
		eventlog.New(),
		dir,
		draft.NewStore(),
		log,
		workflow.WithExclusiveWorkflows(featureflags.Enabled(featureflags.ExclusiveWorkflows)),
		workflow.WithAuditLogger(auditLogger),
	)

	// Initial load; falls back to the degraded dataset when the backend is down.
	dir.Refresh(ctx)

	// 5. Handlers
	employeesHandler := handler.NewEmployeesHandler(dir, log)
	draftHandler := handler.NewDraftHandler(dispatcher.Draft(), log)
	workflowHandler := handler.NewWorkflowHandler(dispatcher, log)
	logsHandler := handler.NewLogsHandler(dispatcher.Log(), log, cfg.CORSAllowedOrigins)
	statusHandler := handler.NewStatusHandler(dispatcher, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.Checker{"backend": backend}, log)

	// 6. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees", employeesHandler.List)
	mux.HandleFunc("POST /api/employees/refresh", employeesHandler.Refresh)
	mux.HandleFunc("GET /api/draft", draftHandler.Get)
	mux.HandleFunc("PUT /api/draft/{field}", draftHandler.SetField)
	mux.HandleFunc("DELETE /api/draft", draftHandler.Reset)
	mux.HandleFunc("POST /api/onboard", workflowHandler.Onboard)
	mux.HandleFunc("POST /api/offboard", workflowHandler.Offboard)
	mux.HandleFunc("GET /api/logs", logsHandler.List)
	mux.HandleFunc("DELETE /api/logs", logsHandler.Clear)
	mux.Handle("GET /api/status", statusHandler)
	mux.HandleFunc("GET /ws/logs", logsHandler.Stream)
	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("GET /metrics", promhttp.Handler())

	// 7. Operator authentication, only when a password hash is configured
	var loginLimiter *ratelimit.Limiter
	var api http.Handler = mux
	if cfg.AuthEnabled() {
		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			log.Warn("JWT_SECRET not set; tokens will not survive a restart")
		}
		tokenManager := auth.NewTokenManager(secret, "hrautomator")
		credentials := auth.NewOperatorCredentials(cfg.OperatorPasswordHash)
		mux.Handle("POST /api/login", handler.NewLoginHandler(tokenManager, credentials, cfg.TokenTTL, auditLogger, log))

		loginLimiter = ratelimit.NewLimiter(10, time.Minute)
		api = middleware.LoginRateLimitMiddleware(loginLimiter, log)(
			middleware.JWTMiddleware(tokenManager, log)(mux),
		)
	} else {
		log.Warn("operator authentication disabled: OPERATOR_PASSWORD_HASH not set")
	}

	// Chain middleware: otel -> metrics -> request ID -> CORS -> auth -> routes
	rootHandler := otelhttp.NewHandler(
		metrics.HTTPMetricsMiddleware(
			withRequestID(withCORS(api, cfg.CORSAllowedOrigins), log),
		),
		"hrautomator-server",
	)

	// 8. Periodic directory refresh
	if cfg.DirectoryRefreshInterval > 0 {
		go worker.NewDirectoryWorker(dir, log, cfg.DirectoryRefreshInterval).Start(ctx)
	}

	// 9. Start HTTP server. No write timeout: /ws/logs is long-lived.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           rootHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("auth", cfg.AuthEnabled()),
		slog.Bool("exclusive_workflows", dispatcher.Exclusive()),
		slog.Duration("directory_refresh", cfg.DirectoryRefreshInterval),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			sigChan <- syscall.SIGTERM
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	cancel()
	if loginLimiter != nil {
		loginLimiter.Stop()
	}

	// Issued backend calls run to completion; wait for them so their
	// outcome reaches the process log.
	waitDone := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-shutdownCtx.Done():
		log.Warn("shutdown with workflows still in flight")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		ctx := audit.WithRequestID(r.Context(), reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Debug("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// withCORS answers preflight requests and honours the configured origins
func withCORS(next http.Handler, allowed []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(allowed, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(allowed) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", allowed[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
