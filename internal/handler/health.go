package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Checker reports whether a dependency is reachable
type Checker interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the health status response
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks map[string]Checker
	logger *slog.Logger
}

// NewHealthHandler creates a health handler; checks are keyed by dependency name
func NewHealthHandler(checks map[string]Checker, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{checks: checks, logger: logger}
}

// Health handles GET /healthz - liveness only
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /readyz - 200 only when every dependency answers
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, checker := range h.checks {
		if err := checker.Ping(ctx); err != nil {
			results[name] = "error: " + err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !healthy {
		status, code = "not_ready", http.StatusServiceUnavailable
	}

	h.logger.Debug("readiness check", slog.String("status", status))
	writeJSON(w, h.logger, code, ReadinessResponse{Status: status, Checks: results})
}
