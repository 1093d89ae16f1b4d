package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogOffboardingCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	al := NewLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-1")
	al.LogOffboarding(ctx, "operator", "bob.smith", "succeeded", "")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "audit", rec["msg"])
	require.Equal(t, "offboard", rec["action"])
	require.Equal(t, "bob.smith", rec["username"])
	require.Equal(t, "req-1", rec["request_id"])
}

func TestRequestIDMissing(t *testing.T) {
	require.Empty(t, RequestID(context.Background()))
}

func TestOperatorDefault(t *testing.T) {
	require.Equal(t, "operator", Operator(context.Background()))
	require.Equal(t, "alice", Operator(WithOperator(context.Background(), "alice")))
}
