package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

// Refresher reloads the directory mirror; failures are absorbed by the
// implementation (fallback dataset), so a run never errors
type Refresher interface {
	Refresh(ctx context.Context) []domain.EmployeeRecord
}

// DirectoryWorker periodically refreshes the directory so it stays
// eventually consistent with changes made outside this controller
type DirectoryWorker struct {
	directory Refresher
	logger    *slog.Logger
	interval  time.Duration
}

// NewDirectoryWorker creates a new directory refresh worker
func NewDirectoryWorker(directory Refresher, logger *slog.Logger, interval time.Duration) *DirectoryWorker {
	return &DirectoryWorker{
		directory: directory,
		logger:    logger,
		interval:  interval,
	}
}

// Start runs the refresh loop until ctx is done
func (w *DirectoryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("directory worker started", slog.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("directory worker stopped")
			return
		case <-ticker.C:
			records := w.directory.Refresh(ctx)
			w.logger.Debug("periodic directory refresh", slog.Int("records", len(records)))
		}
	}
}
