// Package directory keeps a local mirror of the employee/account list.
//
// The mirror is replaced wholesale on every refresh; there is no merge. When
// the backend cannot be read the cache switches to a fixed fallback dataset
// (degraded mode) so the operator surface stays inspectable.
package directory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
)

// Source reads the authoritative employee collection
type Source interface {
	ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error)
}

// Fallback returns the fixed degraded-mode dataset. A fresh slice is
// returned on every call.
func Fallback() []domain.EmployeeRecord {
	return []domain.EmployeeRecord{
		{ID: "1", Username: "jane.doe", Status: domain.StatusActive, Department: "Engineering"},
		{ID: "2", Username: "bob.smith", Status: domain.StatusProvisioning, Department: "Sales"},
	}
}

// Cache is the directory mirror
type Cache struct {
	source   Source
	logger   *slog.Logger
	mu       sync.RWMutex
	records  []domain.EmployeeRecord
	degraded bool
}

// New creates an empty cache reading from source
func New(source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source:  source,
		logger:  logger,
		records: []domain.EmployeeRecord{},
	}
}

// Refresh issues one backend read and replaces the cache with the result,
// or with the fallback dataset on any failure. It returns the new contents.
func (c *Cache) Refresh(ctx context.Context) []domain.EmployeeRecord {
	records, err := c.source.ListEmployees(ctx)
	degraded := false
	if err != nil {
		c.logger.Error("failed to fetch employees, using fallback directory",
			slog.String("error", err.Error()),
		)
		records = Fallback()
		degraded = true
	}

	c.mu.Lock()
	c.records = records
	c.degraded = degraded
	c.mu.Unlock()

	result := "fetched"
	if degraded {
		result = "fallback"
	}
	metrics.ObserveDirectoryRefresh(result, len(records))
	c.logger.Debug("directory refreshed", slog.String("result", result), slog.Int("records", len(records)))

	return clone(records)
}

// Records returns a copy of the cached directory
func (c *Cache) Records() []domain.EmployeeRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.records)
}

// Degraded reports whether the cache currently holds the fallback dataset
func (c *Cache) Degraded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.degraded
}

// Find looks up a cached record by username
func (c *Cache) Find(username string) (domain.EmployeeRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, r := range c.records {
		if r.Username == username {
			return r, true
		}
	}
	return domain.EmployeeRecord{}, false
}

func clone(in []domain.EmployeeRecord) []domain.EmployeeRecord {
	out := make([]domain.EmployeeRecord, len(in))
	copy(out, in)
	return out
}
