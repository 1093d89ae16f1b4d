package eventlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
)

func TestAppendIsNewestFirst(t *testing.T) {
	l := New()
	l.Info("first")
	l.Success("second")
	l.Error("third")

	entries := l.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, "third", entries[0].Message)
	require.Equal(t, domain.SeverityError, entries[0].Severity)
	require.Equal(t, "first", entries[2].Message)
	require.Equal(t, domain.SeverityInfo, entries[2].Severity)
}

func TestClearIsIdempotent(t *testing.T) {
	l := New()
	l.Warning("something")

	l.Clear()
	require.Empty(t, l.Entries())
	l.Clear()
	require.Empty(t, l.Entries())

	l.Info("after clear")
	require.Len(t, l.Entries(), 1)
	require.Equal(t, "after clear", l.Entries()[0].Message)
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New()
	l.Info("original")
	entries := l.Entries()
	entries[0].Message = "mutated"
	require.Equal(t, "original", l.Entries()[0].Message)
}

func TestTimestampFormat(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 14, 5, 9, 0, time.Local)
	l := New().WithClock(func() time.Time { return fixed })
	entry := l.Info("x")
	require.Equal(t, "2:05:09 PM", entry.Timestamp)
}

func TestSubscribeReceivesNewEntries(t *testing.T) {
	l := New()
	l.Info("before")

	ch, cancel := l.Subscribe(4)
	l.Success("after")

	select {
	case got := <-ch:
		require.Equal(t, "after", got.Message)
	case <-time.After(time.Second):
		t.Fatal("expected entry on subscription")
	}

	cancel()
	cancel()
	_, open := <-ch
	require.False(t, open)

	// appends after cancel must not panic
	l.Info("later")
}
