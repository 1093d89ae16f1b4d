package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/infrastructure/logger"
)

type stubSource struct {
	records []domain.EmployeeRecord
	err     error
	calls   int
}

func (s *stubSource) ListEmployees(ctx context.Context) ([]domain.EmployeeRecord, error) {
	s.calls++
	return s.records, s.err
}

func TestRefreshReplacesWholesale(t *testing.T) {
	src := &stubSource{records: []domain.EmployeeRecord{
		{Username: "a", Department: "Sales", Status: domain.StatusActive},
		{Username: "b", Department: "HR", Status: domain.StatusActive},
	}}
	c := New(src, logger.Discard())
	require.Len(t, c.Refresh(context.Background()), 2)

	src.records = []domain.EmployeeRecord{{Username: "c", Department: "HR", Status: domain.StatusSuspended}}
	got := c.Refresh(context.Background())
	require.Equal(t, src.records, got)
	require.Equal(t, src.records, c.Records())

	_, ok := c.Find("a")
	require.False(t, ok, "stale entries must be dropped")
	require.False(t, c.Degraded())
	require.Equal(t, 2, src.calls)
}

func TestRefreshFallbackIsDeterministic(t *testing.T) {
	src := &stubSource{records: []domain.EmployeeRecord{{Username: "someone"}}}
	c := New(src, logger.Discard())
	c.Refresh(context.Background())

	src.records, src.err = nil, errors.New("connection refused")
	first := c.Refresh(context.Background())
	second := c.Refresh(context.Background())

	require.Equal(t, Fallback(), first)
	require.Equal(t, first, second)
	require.True(t, c.Degraded())
	require.Len(t, first, 2)
	require.Equal(t, "jane.doe", first[0].Username)
	require.Equal(t, domain.StatusActive, first[0].Status)
	require.Equal(t, "bob.smith", first[1].Username)
	require.Equal(t, domain.StatusProvisioning, first[1].Status)
}

func TestRecoversFromDegradedMode(t *testing.T) {
	src := &stubSource{err: errors.New("down")}
	c := New(src, logger.Discard())
	c.Refresh(context.Background())
	require.True(t, c.Degraded())

	src.err = nil
	src.records = []domain.EmployeeRecord{}
	require.Empty(t, c.Refresh(context.Background()))
	require.False(t, c.Degraded())
}

func TestRecordsAreCopies(t *testing.T) {
	c := New(&stubSource{err: errors.New("down")}, logger.Discard())
	c.Refresh(context.Background())
	records := c.Records()
	records[0].Username = "mutated"
	require.Equal(t, "jane.doe", c.Records()[0].Username)
}
