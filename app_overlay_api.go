package main

import (
	"context"
	"math"

	"github.com/VibeProjects/tambourine-voice/internal/overlay"
)

// overlayWindowLabel is the window name the frontend passes to ResizeOverlay.
const overlayWindowLabel = "overlay"

// ResizeOverlay resizes the overlay window to the given logical dimensions,
// keeping its current center fixed. Requests for a window that does not
// exist yet are silently ignored.
func (a *App) ResizeOverlay(label string, width, height float64) error {
	ctl, err := a.requireOverlay()
	if err != nil {
		return err
	}
	return ctl.Resize(label, width, height)
}

// newOverlayController wires the geometry controller to the Wails runtime.
// The resolver reports no window until the runtime context exists, which
// turns early resize calls into no-ops.
func newOverlayController(a *App) *overlay.Controller {
	return overlay.NewController(func(label string) (overlay.WindowHost, bool) {
		if label != overlayWindowLabel {
			return nil, false
		}
		ctx := a.runtimeContext()
		if ctx == nil {
			return nil, false
		}
		return &wailsWindowHost{ctx: ctx}, true
	})
}

// wailsWindowHost adapts the Wails runtime window APIs to overlay.WindowHost.
// Wails reports logical coordinates already scaled by the OS, so the scale
// factor is identity.
type wailsWindowHost struct {
	ctx context.Context
}

func (h *wailsWindowHost) OuterPosition() (int, int, error) {
	x, y := runtimeWindowGetPositionFn(h.ctx)
	return x, y, nil
}

func (h *wailsWindowHost) OuterSize() (int, int, error) {
	w, hgt := runtimeWindowGetSizeFn(h.ctx)
	return w, hgt, nil
}

func (h *wailsWindowHost) ScaleFactor() float64 { return 1.0 }

func (h *wailsWindowHost) SetSize(width, height float64) error {
	runtimeWindowSetSizeFn(h.ctx, int(math.Round(width)), int(math.Round(height)))
	return nil
}

func (h *wailsWindowHost) SetPosition(x, y float64) error {
	runtimeWindowSetPositionFn(h.ctx, int(math.Round(x)), int(math.Round(y)))
	return nil
}
