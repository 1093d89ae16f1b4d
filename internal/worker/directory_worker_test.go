package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(context.Context) []domain.EmployeeRecord {
	c.calls.Add(1)
	return nil
}

func TestDirectoryWorkerRefreshesUntilCancelled(t *testing.T) {
	r := &countingRefresher{}
	w := NewDirectoryWorker(r, logger.Discard(), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(stopped)
	}()

	require.Eventually(t, func() bool { return r.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	after := r.calls.Load()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, after, r.calls.Load())
}
