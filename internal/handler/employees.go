package handler

import (
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrautomator/internal/directory"
	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// EmployeesResponse is the cached directory view
type EmployeesResponse struct {
	Employees []domain.EmployeeRecord `json:"employees"`
	Degraded  bool                    `json:"degraded"`
}

// EmployeesHandler serves the directory cache
type EmployeesHandler struct {
	directory *directory.Cache
	logger    *slog.Logger
}

// NewEmployeesHandler creates a new employees handler
func NewEmployeesHandler(dir *directory.Cache, logger *slog.Logger) *EmployeesHandler {
	return &EmployeesHandler{directory: dir, logger: logger}
}

// List handles GET /api/employees; it never calls the backend
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, EmployeesResponse{
		Employees: h.directory.Records(),
		Degraded:  h.directory.Degraded(),
	})
}

// Refresh handles POST /api/employees/refresh
func (h *EmployeesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	records := h.directory.Refresh(r.Context())
	writeJSON(w, h.logger, http.StatusOK, EmployeesResponse{
		Employees: records,
		Degraded:  h.directory.Degraded(),
	})
}
