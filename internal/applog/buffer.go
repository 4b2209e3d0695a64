package applog

import (
	"log/slog"
	"sync"
	"time"
)

// Entry is one captured log record, shaped for the diagnostics panel.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
}

// Buffer retains the most recent captured log entries in a fixed-size ring.
// Safe for concurrent use.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewBuffer creates a ring buffer holding up to capacity entries. Capacity
// below 1 is treated as 1.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{entries: make([]Entry, capacity)}
}

// Append records a log entry, evicting the oldest when full.
func (b *Buffer) Append(ts time.Time, level slog.Level, msg string, source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = Entry{
		Timestamp: ts,
		Level:     level.String(),
		Message:   msg,
		Source:    source,
	}
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// Sink adapts the buffer for use as a TeeHandler sink.
func (b *Buffer) Sink() RecordSink {
	return func(ts time.Time, level slog.Level, msg string, group string) {
		b.Append(ts, level, msg, group)
	}
}

// Snapshot returns the retained entries, oldest first.
func (b *Buffer) Snapshot() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]Entry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]Entry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	out = append(out, b.entries[:b.next]...)
	return out
}

// Len reports how many entries are currently retained.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}
