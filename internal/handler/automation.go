package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/service"
)

// AutomationHandler serves the automation backend contract:
// GET /employees, POST /onboard and POST /offboard
type AutomationHandler struct {
	provisioning *service.ProvisioningService
	logger       *slog.Logger
}

// NewAutomationHandler creates a new automation backend handler
func NewAutomationHandler(provisioning *service.ProvisioningService, logger *slog.Logger) *AutomationHandler {
	return &AutomationHandler{provisioning: provisioning, logger: logger}
}

// Employees handles GET /employees
func (h *AutomationHandler) Employees(w http.ResponseWriter, r *http.Request) {
	records, err := h.provisioning.ListEmployees(r.Context())
	if err != nil {
		h.logger.Error("failed to list employees", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, records)
}

// Onboard handles POST /onboard
func (h *AutomationHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req domain.OnboardingDraft
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.provisioning.Onboard(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, res)
}

// Offboard handles POST /offboard
func (h *AutomationHandler) Offboard(w http.ResponseWriter, r *http.Request) {
	var req domain.OffboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.provisioning.Offboard(r.Context(), req.Username)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, res)
}

// fail maps service errors onto the status codes the controller classifies
// as application errors; the message is shown to the operator verbatim
func (h *AutomationHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	default:
		h.logger.Error("workflow failed", slog.String("error", err.Error()))
	}
	writeError(w, h.logger, status, err.Error())
}
