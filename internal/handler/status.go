package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
)

// StatusResponse is a snapshot of the controller state
type StatusResponse struct {
	Busy              bool                   `json:"busy"`
	Exclusive         bool                   `json:"exclusive"`
	DirectoryDegraded bool                   `json:"directoryDegraded"`
	Employees         int                    `json:"employees"`
	LogEntries        int                    `json:"logEntries"`
	Draft             domain.OnboardingDraft `json:"draft"`
}

// StatusHandler reports the busy flag and the size of the shared state
type StatusHandler struct {
	dispatcher *workflow.Dispatcher
	logger     *slog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(dispatcher *workflow.Dispatcher, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{dispatcher: dispatcher, logger: logger}
}

// ServeHTTP handles GET /api/status
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d := h.dispatcher
	writeJSON(w, h.logger, http.StatusOK, StatusResponse{
		Busy:              d.Busy(),
		Exclusive:         d.Exclusive(),
		DirectoryDegraded: d.Directory().Degraded(),
		Employees:         len(d.Directory().Records()),
		LogEntries:        d.Log().Len(),
		Draft:             d.Draft().Get(),
	})
}
