package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/security/audit"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
	"github.com/aryan0dhankhar/hrautomator/internal/security/ratelimit"
)

func TestJWTMiddleware(t *testing.T) {
	tm := auth.NewTokenManager("secret", "")
	var operator string
	h := JWTMiddleware(tm, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator = audit.Operator(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	serve := func(req *http.Request) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, serve(httptest.NewRequest(http.MethodGet, "/healthz", nil)))
	require.Equal(t, http.StatusOK, serve(httptest.NewRequest(http.MethodPost, "/api/login", nil)))
	require.Equal(t, http.StatusUnauthorized, serve(httptest.NewRequest(http.MethodGet, "/api/logs", nil)))

	bad := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	bad.Header.Set("Authorization", "Bearer nope")
	require.Equal(t, http.StatusUnauthorized, serve(bad))

	token, err := tm.GenerateToken("alice", time.Minute)
	require.NoError(t, err)
	ok := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	ok.Header.Set("Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, serve(ok))
	require.Equal(t, "alice", operator)

	require.Equal(t, http.StatusOK, serve(httptest.NewRequest(http.MethodGet, "/ws/logs?token="+token, nil)))
	require.Equal(t, http.StatusUnauthorized, serve(httptest.NewRequest(http.MethodGet, "/api/logs?token="+token, nil)))
}

func TestLoginRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewLimiter(2, time.Minute)
	defer limiter.Stop()
	h := LoginRateLimitMiddleware(limiter, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	login := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, login("10.0.0.1:5000"))
	require.Equal(t, http.StatusOK, login("10.0.0.1:5001"))
	require.Equal(t, http.StatusTooManyRequests, login("10.0.0.1:5002"))
	require.Equal(t, http.StatusOK, login("10.0.0.2:5000"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
