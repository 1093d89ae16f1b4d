package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/redis"
	"github.com/aryan0dhankhar/hrautomator/pkg/config"
)

func TestOpenStoreDoesNotRetryMalformedRedisURL(t *testing.T) {
	cfg := &config.Config{EmployeeStore: "redis", RedisURL: "localhost:6379"}

	start := time.Now()
	_, _, _, err := openStore(context.Background(), cfg, logger.Discard())
	require.ErrorIs(t, err, redis.ErrInvalidURL)
	// the first backoff alone is 500ms
	require.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	cfg := &config.Config{EmployeeStore: "memory"}

	store, checks, closeStore, err := openStore(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeStore()
	require.NotNil(t, store)
	require.Empty(t, checks)
}
