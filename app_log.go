package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/VibeProjects/tambourine-voice/internal/applog"
)

const (
	// diagnosticsLogCapacity bounds the in-memory log ring shown in the
	// diagnostics panel.
	diagnosticsLogCapacity = 500

	// logEmitThrottle limits app:log-updated event frequency so a burst of
	// warnings cannot saturate the Wails IPC channel. The frontend re-reads
	// the full buffer on each event, so dropped notifications lose nothing.
	logEmitThrottle = 250 * time.Millisecond
)

// installLogCapture replaces the default slog handler with a tee that keeps
// Warn and Error records in the diagnostics ring buffer.
func (a *App) installLogCapture() {
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	tee := applog.NewTeeHandler(base, slog.LevelWarn, func(ts time.Time, level slog.Level, msg string, group string) {
		a.logBuffer.Append(ts, level, msg, group)
		a.notifyLogUpdated()
	})
	slog.SetDefault(slog.New(tee))
}

// notifyLogUpdated emits app:log-updated at most once per throttle window.
func (a *App) notifyLogUpdated() {
	now := time.Now().UnixMilli()
	last := a.lastLogEmit.Load()
	if now-last < logEmitThrottle.Milliseconds() {
		return
	}
	if !a.lastLogEmit.CompareAndSwap(last, now) {
		return
	}
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	runtimeEventsEmitFn(ctx, "app:log-updated", nil)
}

// GetRecentLogEntries returns the retained diagnostics log entries, oldest
// first.
func (a *App) GetRecentLogEntries() []applog.Entry {
	return a.logBuffer.Snapshot()
}
