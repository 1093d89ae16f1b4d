package audit

import (
	"context"
	"log/slog"
	"time"
)

type requestIDKey struct{}
type operatorKey struct{}

// WithRequestID stores the request ID used to correlate audit records
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request ID stored in ctx, or ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithOperator stores the authenticated operator name
func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operator)
}

// Operator returns the operator stored in ctx, or "operator" when the
// surface runs without authentication
func Operator(ctx context.Context) string {
	if op, ok := ctx.Value(operatorKey{}).(string); ok && op != "" {
		return op
	}
	return "operator"
}

type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	return &Logger{logger: logger}
}

func (al *Logger) LogAction(ctx context.Context, operator, action, username, outcome, details string) {
	al.logger.Info("audit",
		slog.String("action", action),
		slog.String("resource", "employee"),
		slog.String("username", username),
		slog.String("operator", operator),
		slog.String("outcome", outcome),
		slog.String("details", details),
		slog.String("request_id", RequestID(ctx)),
		slog.Time("timestamp", time.Now()),
	)
}

func (al *Logger) LogOnboarding(ctx context.Context, operator, username, outcome, details string) {
	al.LogAction(ctx, operator, "onboard", username, outcome, details)
}

func (al *Logger) LogOffboarding(ctx context.Context, operator, username, outcome, details string) {
	al.LogAction(ctx, operator, "offboard", username, outcome, details)
}

func (al *Logger) LogDenied(ctx context.Context, operator, reason string) {
	al.LogAction(ctx, operator, "access_denied", "", "denied", reason)
}
