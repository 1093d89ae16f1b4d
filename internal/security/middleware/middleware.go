package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/aryan0dhankhar/hrautomator/internal/security/audit"
	"github.com/aryan0dhankhar/hrautomator/internal/security/auth"
	"github.com/aryan0dhankhar/hrautomator/internal/security/ratelimit"
)

// isPublic lists the paths served without a token
func isPublic(path string) bool {
	if path == "/api/login" {
		return true
	}
	return !strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/ws/")
}

// JWTMiddleware requires a bearer token on the operator API. Websocket
// clients may pass the token as ?token= since browsers cannot set headers.
func JWTMiddleware(tm *auth.TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := ""
			if strings.HasPrefix(r.URL.Path, "/ws/") {
				tokenString = r.URL.Query().Get("token")
			}
			if tokenString == "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					writeError(w, "missing auth", http.StatusUnauthorized)
					return
				}
				var err error
				tokenString, err = auth.ExtractToken(authHeader)
				if err != nil {
					writeError(w, "invalid auth", http.StatusUnauthorized)
					return
				}
			}

			claims, err := tm.ValidateToken(tokenString)
			if err != nil {
				log.Warn("rejected operator token", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
				writeError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := audit.WithOperator(r.Context(), claims.Operator)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoginRateLimitMiddleware throttles POST /api/login per client address
func LoginRateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost && r.URL.Path == "/api/login" {
				client := clientAddr(r)
				if !limiter.Allow(client) {
					log.Warn("login rate limit exceeded", slog.String("client", client))
					w.Header().Set("Retry-After", "60")
					writeError(w, "too many login attempts", http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
