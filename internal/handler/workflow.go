package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aryan0dhankhar/hrautomator/internal/draft"
	"github.com/aryan0dhankhar/hrautomator/internal/workflow"
)

// Dispatch statuses reported by the workflow endpoints
const (
	StatusDispatched = "dispatched"
)

// OffboardRequest is the body of POST /api/offboard
type OffboardRequest struct {
	Username string `json:"username"`
	Confirm  bool   `json:"confirm"`
}

// WorkflowResponse reports whether a workflow was dispatched, or its outcome
// when the caller asked to wait for it
type WorkflowResponse struct {
	Status string `json:"status"`
}

// WorkflowHandler starts onboarding and offboarding workflows
type WorkflowHandler struct {
	dispatcher *workflow.Dispatcher
	logger     *slog.Logger
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(dispatcher *workflow.Dispatcher, logger *slog.Logger) *WorkflowHandler {
	return &WorkflowHandler{dispatcher: dispatcher, logger: logger}
}

// Onboard handles POST /api/onboard by submitting the current draft; fields
// are staged beforehand through PUT /api/draft/{field}. Submitting while a
// workflow is in flight is refused, the same way an operator cannot press
// submit while busy. A rejected submit leaves the draft untouched.
func (h *WorkflowHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	if h.dispatcher.Busy() {
		writeError(w, h.logger, http.StatusConflict, workflow.ErrWorkflowInFlight.Error())
		return
	}

	done, err := h.dispatcher.SubmitDraftAsync(r.Context())
	if err != nil {
		h.dispatchFailed(w, err)
		return
	}
	h.respond(w, r, done)
}

// Offboard handles POST /api/offboard. The confirmation travels in the
// request; confirm=false aborts without touching the log or the backend.
func (h *WorkflowHandler) Offboard(w http.ResponseWriter, r *http.Request) {
	var req OffboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Username == "" {
		writeError(w, h.logger, http.StatusBadRequest, "username required")
		return
	}

	done, err := h.dispatcher.OffboardAsync(r.Context(), req.Username, workflow.Static(req.Confirm))
	if err != nil {
		h.dispatchFailed(w, err)
		return
	}
	if !req.Confirm {
		writeJSON(w, h.logger, http.StatusOK, WorkflowResponse{Status: string(<-done)})
		return
	}
	h.respond(w, r, done)
}

func (h *WorkflowHandler) respond(w http.ResponseWriter, r *http.Request, done <-chan workflow.Outcome) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		writeJSON(w, h.logger, http.StatusOK, WorkflowResponse{Status: string(<-done)})
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, WorkflowResponse{Status: StatusDispatched})
}

func (h *WorkflowHandler) dispatchFailed(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workflow.ErrInvalidDraft):
		writeJSON(w, h.logger, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   err.Error(),
			Missing: draft.Validate(h.dispatcher.Draft().Get()),
		})
	case errors.Is(err, workflow.ErrWorkflowInFlight):
		writeError(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.Error("failed to dispatch workflow", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusInternalServerError, "failed to dispatch workflow")
	}
}
