package main

import (
	"embed"
	"errors"
	"log/slog"

	"github.com/VibeProjects/tambourine-voice/internal/ipc"
	"github.com/VibeProjects/tambourine-voice/internal/singleinstance"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// Single-instance check BEFORE any Wails/WebView initialization.
	// Two simultaneous instances would race on the settings file and fight
	// over the global hotkey registrations.
	mutexLock, err := singleinstance.TryLock(singleinstance.DefaultMutexName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		slog.Info("[single] another instance is already running, signaling activation")
		if _, sendErr := ipc.Send("", ipc.Request{Command: ipc.CommandActivate}); sendErr != nil {
			slog.Warn("[single] failed to signal existing instance", "error", sendErr)
		}
		return
	}
	if err != nil {
		// Mutex creation failed for an unexpected reason. Continue startup
		// without the guard rather than refusing to launch.
		slog.Warn("[single] mutex creation failed, proceeding without single-instance guard", "error", err)
	}
	if mutexLock != nil {
		defer func() {
			if releaseErr := mutexLock.Release(); releaseErr != nil {
				slog.Warn("[single] mutex release failed", "error", releaseErr)
			}
		}()
	}

	app := NewApp()

	err = wails.Run(&options.App{
		Title:     "Tambourine",
		Width:     420,
		Height:    640,
		MinWidth:  320,
		MinHeight: 480,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 16, G: 14, B: 24, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []any{
			app,
		},
	})

	if err != nil {
		slog.Error("[single] wails run failed", "error", err)
	}
}
