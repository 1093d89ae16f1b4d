// Package eventlog holds the operator-visible workflow log: an append-only,
// newest-first sequence of timestamped events.
package eventlog

import (
	"sync"
	"time"

	"github.com/aryan0dhankhar/hrautomator/internal/domain"
	"github.com/aryan0dhankhar/hrautomator/internal/observability/metrics"
)

// TimeFormat renders entry timestamps as local wall-clock time
const TimeFormat = "3:04:05 PM"

// Log is the workflow event log. Each Append is atomic; there is no size cap.
type Log struct {
	mu      sync.RWMutex
	entries []domain.LogEntry // oldest first; reversed on read
	subs    map[int]chan domain.LogEntry
	nextSub int
	now     func() time.Time
}

// New creates an empty log
func New() *Log {
	return &Log{
		subs: map[int]chan domain.LogEntry{},
		now:  time.Now,
	}
}

// WithClock overrides the timestamp source
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Append records a new entry at the head of the log and returns it
func (l *Log) Append(message string, severity domain.Severity) domain.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := domain.LogEntry{
		Timestamp: l.now().Local().Format(TimeFormat),
		Message:   message,
		Severity:  severity,
	}
	l.entries = append(l.entries, entry)
	metrics.ObserveLogEntry(string(severity))

	for _, ch := range l.subs {
		// slow subscribers miss entries rather than stall the workflow
		select {
		case ch <- entry:
		default:
		}
	}
	return entry
}

func (l *Log) Info(message string) domain.LogEntry {
	return l.Append(message, domain.SeverityInfo)
}

func (l *Log) Success(message string) domain.LogEntry {
	return l.Append(message, domain.SeveritySuccess)
}

func (l *Log) Warning(message string) domain.LogEntry {
	return l.Append(message, domain.SeverityWarning)
}

func (l *Log) Error(message string) domain.LogEntry {
	return l.Append(message, domain.SeverityError)
}

// Entries returns a copy of the log, most recent first
func (l *Log) Entries() []domain.LogEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.LogEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear discards every entry
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Subscribe returns a channel receiving every entry appended after the call,
// and a function that ends the subscription.
func (l *Log) Subscribe(buffer int) (<-chan domain.LogEntry, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSub
	l.nextSub++
	ch := make(chan domain.LogEntry, buffer)
	l.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			delete(l.subs, id)
			close(ch)
		})
	}
}
