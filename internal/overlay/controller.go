// Package overlay positions and resizes the floating overlay window so that
// its center stays fixed while its content grows or shrinks.
package overlay

import (
	"fmt"
	"log/slog"
)

// MinDimension is the smallest logical width or height a resize may request.
// Requests below it are clamped, not rejected.
const MinDimension = 48.0

// WindowHost is the slice of windowing behavior the controller needs. The
// concrete implementation wraps the UI runtime; tests use fakes.
type WindowHost interface {
	// OuterPosition returns the window's top-left corner in physical pixels.
	OuterPosition() (x, y int, err error)
	// OuterSize returns the window's outer dimensions in physical pixels.
	OuterSize() (width, height int, err error)
	// ScaleFactor is the physical-to-logical ratio of the window's monitor.
	ScaleFactor() float64
	// SetSize resizes the window, in logical units.
	SetSize(width, height float64) error
	// SetPosition moves the window's top-left corner, in logical units.
	SetPosition(x, y float64) error
}

// HostResolver looks up a live window by label. The second return is false
// when no such window exists right now, which is not an error: the overlay
// may legitimately be closed or not yet created.
type HostResolver func(label string) (WindowHost, bool)

// Controller applies center-preserving resizes to named windows.
//
// The anchor center is recomputed from the window's current geometry on
// every call, so a window the user has dragged keeps its new location as
// the anchor for subsequent resizes.
type Controller struct {
	resolve HostResolver
}

// NewController creates a controller that finds windows through resolve.
func NewController(resolve HostResolver) *Controller {
	return &Controller{resolve: resolve}
}

// Resize sets the window to width x height logical units, keeping the
// window's current center point fixed. Dimensions are clamped to
// MinDimension. A missing window is a no-op.
func (c *Controller) Resize(label string, width, height float64) error {
	host, ok := c.resolve(label)
	if !ok {
		slog.Debug("[overlay] resize skipped, window not present", "label", label)
		return nil
	}

	width = max(width, MinDimension)
	height = max(height, MinDimension)

	centerX, centerY, err := currentCenter(host)
	if err != nil {
		return fmt.Errorf("overlay %s: read geometry: %w", label, err)
	}

	if err := host.SetSize(width, height); err != nil {
		return fmt.Errorf("overlay %s: set size: %w", label, err)
	}
	newX := centerX - width/2
	newY := centerY - height/2
	if err := host.SetPosition(newX, newY); err != nil {
		return fmt.Errorf("overlay %s: set position: %w", label, err)
	}

	slog.Debug("[overlay] resized",
		"label", label,
		"width", width, "height", height,
		"x", newX, "y", newY)
	return nil
}

// currentCenter derives the window's center in logical units from its
// physical geometry.
func currentCenter(host WindowHost) (cx, cy float64, err error) {
	x, y, err := host.OuterPosition()
	if err != nil {
		return 0, 0, err
	}
	w, h, err := host.OuterSize()
	if err != nil {
		return 0, 0, err
	}
	scale := host.ScaleFactor()
	if scale <= 0 {
		scale = 1.0
	}
	cx = float64(x)/scale + float64(w)/scale/2
	cy = float64(y)/scale + float64(h)/scale/2
	return cx, cy, nil
}
