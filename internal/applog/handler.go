// Package applog captures application log records for the in-app
// diagnostics panel while still writing them to the normal slog output.
package applog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"
)

// RecordSink is invoked for each log record at or above the capture
// threshold. group is the accumulated dot-separated slog group name, or ""
// when the record was logged outside any group.
type RecordSink func(ts time.Time, level slog.Level, msg string, group string)

// TeeHandler wraps a base [slog.Handler] and tees records at or above
// minLevel to a sink. All records are forwarded to the base handler
// regardless of level; only the sink invocation is gated by minLevel.
type TeeHandler struct {
	base     slog.Handler
	sink     RecordSink
	minLevel slog.Level
	group    string
}

// NewTeeHandler creates a TeeHandler that delegates to base and invokes sink
// for every record whose level is >= minLevel. A nil sink is safe; the
// handler then simply delegates.
func NewTeeHandler(base slog.Handler, minLevel slog.Level, sink RecordSink) *TeeHandler {
	return &TeeHandler{
		base:     base,
		sink:     sink,
		minLevel: minLevel,
	}
}

// Enabled defers to the base handler. The capture threshold does not affect
// visibility of the base output.
func (h *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle forwards the record to the base handler, then invokes the sink if
// the record's level meets the capture threshold.
//
// The sink runs regardless of base handler error: the diagnostics panel
// should still see the event even when the base output failed.
func (h *TeeHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.base.Handle(ctx, record)

	if h.sink != nil && record.Level >= h.minLevel {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Stderr, not slog, to avoid recursive handler invocation.
					fmt.Fprintf(os.Stderr, "[applog] sink panicked: %v\n%s\n", r, debug.Stack())
				}
			}()
			h.sink(record.Time, record.Level, record.Message, h.group)
		}()
	}

	return err
}

// WithAttrs returns a TeeHandler whose base handler has the attributes
// applied. Sink, threshold, and accumulated group are preserved.
func (h *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &TeeHandler{
		base:     h.base.WithAttrs(attrs),
		sink:     h.sink,
		minLevel: h.minLevel,
		group:    h.group,
	}
}

// WithGroup returns a TeeHandler whose base handler is wrapped with the
// group name, appended to the accumulated group with a "." separator.
func (h *TeeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}

	return &TeeHandler{
		base:     h.base.WithGroup(name),
		sink:     h.sink,
		minLevel: h.minLevel,
		group:    newGroup,
	}
}
