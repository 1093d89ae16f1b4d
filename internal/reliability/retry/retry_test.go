package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
)

func fastConfig(attempts int) *Config {
	return &Config{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, BackoffMultiplier: 2}
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastConfig(3), logger.Discard(), "connect", func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("connection refused")
		}
		return "ok", nil
	})
	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.Equal(t, 3, calls)
}

func TestDoGivesUp(t *testing.T) {
	boom := errors.New("connection refused")
	calls := 0
	_, err := Do(context.Background(), fastConfig(2), logger.Discard(), "connect", func(context.Context) (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "after 2 attempts")
	require.Equal(t, 2, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	bad := errors.New("invalid url")
	calls := 0
	_, err := Do(context.Background(), fastConfig(5), logger.Discard(), "connect", func(context.Context) (int, error) {
		calls++
		return 0, Permanent(bad)
	})
	require.ErrorIs(t, err, bad)
	require.Equal(t, 1, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{MaxAttempts: 5, InitialBackoff: time.Hour, MaxBackoff: time.Hour, BackoffMultiplier: 1}

	_, err := Do(ctx, cfg, logger.Discard(), "connect", func(context.Context) (int, error) {
		cancel()
		return 0, errors.New("connection refused")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCalculateBackoffCaps(t *testing.T) {
	cfg := &Config{InitialBackoff: time.Second, MaxBackoff: 3 * time.Second, BackoffMultiplier: 2}
	require.Equal(t, time.Second, calculateBackoff(0, cfg))
	require.Equal(t, 2*time.Second, calculateBackoff(1, cfg))
	require.Equal(t, 3*time.Second, calculateBackoff(2, cfg))
}
