package main

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/VibeProjects/tambourine-voice/internal/applog"
	"github.com/VibeProjects/tambourine-voice/internal/ipc"
	"github.com/VibeProjects/tambourine-voice/internal/overlay"
	"github.com/VibeProjects/tambourine-voice/internal/settings"
	"github.com/VibeProjects/tambourine-voice/internal/transcripts"
	"github.com/VibeProjects/tambourine-voice/internal/wsserver"
)

// App is the Wails-bound application service.
type App struct {
	// Runtime context lifecycle.
	ctx   context.Context
	ctxMu sync.RWMutex

	// Backend services. Assigned once during startup (single goroutine) and
	// never reassigned; nil checks guard calls that arrive before startup.
	settings         *settings.Manager
	settingsWatcher  *settings.Watcher
	transcripts      *transcripts.Store
	overlayCtl       *overlay.Controller
	activationServer *ipc.Server

	// wsHub streams recorder status to the overlay WebView.
	// Set once during startup; nil if the WebSocket server fails to start.
	wsHub *wsserver.Hub

	// logBuffer retains recent Warn/Error records for the diagnostics panel.
	logBuffer *applog.Buffer

	// Recorder state flags. Written by hotkey/recorder paths, read by the
	// frontend and the status stream.
	recording    atomic.Bool
	pttKeyHeld   atomic.Bool
	pasteKeyHeld atomic.Bool

	// Window visibility state.
	windowMu       sync.Mutex
	windowVisible  bool
	windowToggling atomic.Bool // CAS guard to prevent concurrent window toggles
	shuttingDown   atomic.Bool

	// Startup warnings surfaced to the frontend once it is ready.
	startupWarnMu   sync.Mutex
	startupWarnings []string

	// lastLogEmit throttles app:log-updated emissions (unix milliseconds).
	lastLogEmit atomic.Int64
}

// NewApp creates the app service.
func NewApp() *App {
	return &App{
		logBuffer: applog.NewBuffer(diagnosticsLogCapacity),
	}
}

func (a *App) setRuntimeContext(ctx context.Context) {
	a.ctxMu.Lock()
	a.ctx = ctx
	a.ctxMu.Unlock()
}

func (a *App) runtimeContext() context.Context {
	a.ctxMu.RLock()
	ctx := a.ctx
	a.ctxMu.RUnlock()
	return ctx
}

// GetStatusStreamURL returns the WebSocket endpoint the overlay connects to
// for recorder status frames. Returns empty string if the server is not
// available.
func (a *App) GetStatusStreamURL() string {
	if a.wsHub == nil {
		slog.Debug("[WS] wsHub is nil, status stream URL unavailable")
		return ""
	}
	return a.wsHub.URL()
}
