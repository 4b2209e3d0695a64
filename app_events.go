package main

import (
	"context"
	"log/slog"
)

// emitRuntimeEvent emits via the app context and delegates to emitRuntimeEventWithContext.
func (a *App) emitRuntimeEvent(name string, payload any) {
	a.emitRuntimeEventWithContext(a.runtimeContext(), name, payload)
}

// emitRuntimeEventWithContext emits a runtime event only when ctx is non-nil.
// Prefer this helper for best-effort contexts that may not be initialized yet.
func (a *App) emitRuntimeEventWithContext(ctx context.Context, name string, payload any) {
	if ctx == nil {
		slog.Warn("[EVENT] runtime event dropped because app context is nil", "event", name)
		return
	}
	runtimeEventsEmitFn(ctx, name, payload)
}

// broadcastRecorderStatus pushes the current flag set to both the overlay
// status stream and the main window.
func (a *App) broadcastRecorderStatus() {
	recording := a.recording.Load()
	pttHeld := a.pttKeyHeld.Load()
	pasteHeld := a.pasteKeyHeld.Load()

	if a.wsHub != nil {
		a.wsHub.BroadcastStatus(recording, pttHeld, pasteHeld)
	}
	a.emitRuntimeEvent("recorder:status", map[string]bool{
		"recording":      recording,
		"ptt_key_held":   pttHeld,
		"paste_key_held": pasteHeld,
	})
}
