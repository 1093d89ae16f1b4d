package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryan0dhankhar/hrautomator/internal/security/audit"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
)

// LoginRequest represents operator credentials
type LoginRequest struct {
	Operator string `json:"operator"`
	Password string `json:"password"`
}

// LoginResponse contains the JWT token
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginHandler handles operator authentication
type LoginHandler struct {
	tokenManager *auth.TokenManager
	credentials  *auth.OperatorCredentials
	tokenTTL     time.Duration
	audit        *audit.Logger
	logger       *slog.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(tm *auth.TokenManager, creds *auth.OperatorCredentials, ttl time.Duration, al *audit.Logger, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{
		tokenManager: tm,
		credentials:  creds,
		tokenTTL:     ttl,
		audit:        al,
		logger:       logger,
	}
}

// ServeHTTP handles POST /api/login requests
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode login request", slog.String("error", err.Error()))
		writeError(w, h.logger, http.StatusBadRequest, "invalid request")
		return
	}

	if req.Operator == "" || req.Password == "" {
		writeError(w, h.logger, http.StatusBadRequest, "operator and password required")
		return
	}

	if err := h.credentials.Verify(req.Password); err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("password verification failed", slog.String("error", err.Error()))
		}
		h.audit.LogDenied(r.Context(), req.Operator, "invalid credentials")
		writeError(w, h.logger, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := h.tokenManager.GenerateToken(req.Operator, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token",
			slog.String("operator", req.Operator),
			slog.String("error", err.Error()),
		)
		writeError(w, h.logger, http.StatusInternalServerError, "token generation failed")
		return
	}

	h.logger.Info("operator logged in", slog.String("operator", req.Operator))
	writeJSON(w, h.logger, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenTTL),
	})
}
