package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrautomator/internal/draft"
)

// SetFieldRequest is the body of PUT /api/draft/{field}
type SetFieldRequest struct {
	Value string `json:"value"`
}

// DraftHandler exposes the onboarding draft
type DraftHandler struct {
	store  *draft.Store
	logger *slog.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(store *draft.Store, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{store: store, logger: logger}
}

// Get handles GET /api/draft
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.store.Get())
}

// SetField handles PUT /api/draft/{field}
func (h *DraftHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var req SetFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.store.Set(r.PathValue("field"), req.Value); err != nil {
		if errors.Is(err, draft.ErrUnknownField) {
			writeError(w, h.logger, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, h.logger, http.StatusInternalServerError, "failed to update draft")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.store.Get())
}

// Reset handles DELETE /api/draft
func (h *DraftHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	writeJSON(w, h.logger, http.StatusOK, h.store.Get())
}
