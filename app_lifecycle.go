package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/VibeProjects/tambourine-voice/internal/ipc"
	"github.com/VibeProjects/tambourine-voice/internal/settings"
	"github.com/VibeProjects/tambourine-voice/internal/transcripts"
	"github.com/VibeProjects/tambourine-voice/internal/wsserver"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

type appRuntimeLogger interface {
	Warningf(context.Context, string, ...interface{})
	Infof(context.Context, string, ...interface{})
	Errorf(context.Context, string, ...interface{})
}

type wailsRuntimeLogger struct{}

func formatRuntimeLogMessage(message string, args ...interface{}) string {
	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

func (wailsRuntimeLogger) Warningf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Warn(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogWarningf(ctx, message, args...)
}

func (wailsRuntimeLogger) Infof(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Info(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogInfof(ctx, message, args...)
}

func (wailsRuntimeLogger) Errorf(ctx context.Context, message string, args ...interface{}) {
	if ctx == nil {
		slog.Error(formatRuntimeLogMessage(message, args...))
		return
	}
	runtime.LogErrorf(ctx, message, args...)
}

var (
	runtimeEventsEmitFn                            = runtime.EventsEmit
	runtimeLogger                 appRuntimeLogger = wailsRuntimeLogger{}
	newActivationServerFn                          = ipc.NewServer
	runtimeWindowIsMinimisedFn                     = runtime.WindowIsMinimised
	runtimeWindowHideFn                            = runtime.WindowHide
	runtimeWindowShowFn                            = runtime.WindowShow
	runtimeWindowUnminimiseFn                      = runtime.WindowUnminimise
	runtimeWindowSetAlwaysOnTopFn                  = runtime.WindowSetAlwaysOnTop
	runtimeWindowGetPositionFn                     = runtime.WindowGetPosition
	runtimeWindowGetSizeFn                         = runtime.WindowGetSize
	runtimeWindowSetSizeFn                         = runtime.WindowSetSize
	runtimeWindowSetPositionFn                     = runtime.WindowSetPosition
	runtimeClipboardSetTextFn                      = runtime.ClipboardSetText
)

const shutdownWaitTimeout = 10 * time.Second

func (a *App) addStartupWarning(message string) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return
	}
	a.startupWarnMu.Lock()
	a.startupWarnings = append(a.startupWarnings, trimmed)
	a.startupWarnMu.Unlock()
}

func (a *App) consumeStartupWarnings() string {
	a.startupWarnMu.Lock()
	defer a.startupWarnMu.Unlock()
	if len(a.startupWarnings) == 0 {
		return ""
	}
	message := strings.Join(a.startupWarnings, "\n")
	a.startupWarnings = nil
	return message
}

func (a *App) startup(ctx context.Context) {
	setConsoleUTF8()

	a.setRuntimeContext(ctx)
	a.setWindowVisible(true)
	a.installLogCapture()

	a.startSettings(ctx)
	a.startTranscripts(ctx)
	a.startStatusStream(ctx)
	a.startActivationServer(ctx)
	a.overlayCtl = newOverlayController(a)

	a.flushStartupWarnings()
}

// startSettings loads the settings file (creating it with defaults when
// missing) and begins watching it for external edits. Load/parse failures
// are non-fatal: the app runs with defaults and surfaces a warning.
func (a *App) startSettings(ctx context.Context) {
	store := settings.NewStore("")
	manager, err := settings.NewManager(store)
	if err != nil {
		a.addStartupWarning(
			"Failed to load settings file at startup. Running with defaults. Error: " + err.Error(),
		)
		runtimeLogger.Warningf(ctx, "failed to load settings from %s: %v", store.Path(), err)
	}
	if manager == nil {
		return
	}
	a.settings = manager

	watcher := settings.NewWatcher(manager, func(st settings.AppSettings) {
		a.emitRuntimeEvent("settings:updated", st)
	})
	if err := watcher.Start(); err != nil {
		runtimeLogger.Warningf(ctx, "settings watcher failed: %v", err)
		return
	}
	a.settingsWatcher = watcher
}

func (a *App) startTranscripts(ctx context.Context) {
	path := filepath.Join(filepath.Dir(settings.DefaultPath()), "transcripts.db")
	store, err := transcripts.Open(path)
	if err != nil {
		runtimeLogger.Errorf(ctx, "transcript store failed: %v", err)
		a.addStartupWarning(
			"Failed to open transcript history at startup. History will be unavailable. Error: " + err.Error(),
		)
		return
	}
	a.transcripts = store
}

func (a *App) startStatusStream(ctx context.Context) {
	hub := wsserver.NewHub(wsserver.HubOptions{})
	if err := hub.Start(ctx); err != nil {
		runtimeLogger.Errorf(ctx, "status stream failed: %v", err)
		a.addStartupWarning(
			"Failed to start the overlay status stream. The overlay may not update. Error: " + err.Error(),
		)
		return
	}
	a.wsHub = hub
}

func (a *App) startActivationServer(ctx context.Context) {
	server := newActivationServerFn("", ipc.HandlerFunc(a.handleActivationRequest))
	if err := server.Start(); err != nil {
		runtimeLogger.Errorf(ctx, "activation server failed: %v", err)
		a.addStartupWarning(
			"Failed to start the single-instance activation channel. A second launch will not focus this window. Error: " + err.Error(),
		)
		return
	}
	runtimeLogger.Infof(ctx, "activation server listening: %s", server.Endpoint())
	a.activationServer = server
}

// handleActivationRequest services commands sent by a second instance.
func (a *App) handleActivationRequest(req ipc.Request) ipc.Response {
	if req.Command != ipc.CommandActivate {
		return ipc.Response{OK: false, Message: "unknown command: " + req.Command}
	}
	a.bringWindowToFront()
	return ipc.Response{OK: true}
}

func (a *App) flushStartupWarnings() {
	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}
	if warning := a.consumeStartupWarnings(); warning != "" {
		a.emitRuntimeEventWithContext(ctx, "settings:load-failed", map[string]string{
			"message": warning,
		})
	}
}

func (a *App) shutdown(_ context.Context) {
	a.shuttingDown.Store(true)
	logCtx := a.runtimeContext()

	if a.settingsWatcher != nil {
		// Close waits for the watcher goroutine; bound it so a wedged
		// filesystem watch cannot hang shutdown.
		closed := waitWithTimeout(func() {
			if err := a.settingsWatcher.Close(); err != nil {
				runtimeLogger.Warningf(logCtx, "settings watcher close failed: %v", err)
			}
		}, shutdownWaitTimeout)
		if !closed {
			runtimeLogger.Warningf(logCtx, "timed out waiting for settings watcher during shutdown")
		}
	}
	if a.activationServer != nil {
		if err := a.activationServer.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "activation server stop failed: %v", err)
		}
	}
	if a.wsHub != nil {
		if err := a.wsHub.Stop(); err != nil {
			runtimeLogger.Warningf(logCtx, "status stream stop failed: %v", err)
		}
	}
	if a.transcripts != nil {
		if err := a.transcripts.Close(); err != nil {
			runtimeLogger.Warningf(logCtx, "transcript store close failed: %v", err)
		}
	}
}

func waitWithTimeout(waitFn func(), timeout time.Duration) bool {
	// Best effort timeout guard for shutdown paths. The waiting goroutine may
	// outlive timeout when waitFn blocks indefinitely, but this function is
	// only used during process shutdown where eventual completion is expected.
	done := make(chan struct{})
	go func() {
		waitFn()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// bringWindowToFront shows and raises the application window.
// Used when a second instance signals the first to activate.
func (a *App) bringWindowToFront() {
	ctx := a.runtimeContext()
	if ctx == nil {
		slog.Warn("[ipc] bringWindowToFront dropped because runtime context is nil")
		return
	}
	a.raiseWindow(ctx)
	a.setWindowVisible(true)
}

func (a *App) raiseWindow(ctx context.Context) {
	runtimeWindowShowFn(ctx)
	runtimeWindowUnminimiseFn(ctx)
	runtimeWindowSetAlwaysOnTopFn(ctx, true)
	runtimeWindowSetAlwaysOnTopFn(ctx, false)
}

func (a *App) setWindowVisible(visible bool) {
	a.windowMu.Lock()
	a.windowVisible = visible
	a.windowMu.Unlock()
}

// ToggleWindow hides the window when visible and raises it when hidden.
func (a *App) ToggleWindow() {
	// CAS guard prevents double-toggle when a second trigger fires while OS
	// window operations are in progress.
	if !a.windowToggling.CompareAndSwap(false, true) {
		slog.Debug("[window] toggle already in progress, skipping")
		return
	}
	defer a.windowToggling.Store(false)

	ctx := a.runtimeContext()
	if ctx == nil {
		return
	}

	// Read OS window state outside lock; no Wails runtime API inside mutex.
	isMinimised := runtimeWindowIsMinimisedFn(ctx)

	a.windowMu.Lock()
	currentlyVisible := a.windowVisible && !isMinimised
	a.windowMu.Unlock()

	if currentlyVisible {
		runtimeWindowHideFn(ctx)
	} else {
		a.raiseWindow(ctx)
	}

	a.setWindowVisible(!currentlyVisible)
}
