package main

import (
	"context"
	"testing"
)

type fakeWindowGeometry struct {
	x, y, w, h int

	getPositionCalls int
	setSizeCalls     int
	setPositionCalls int
}

// installWindowSeams points the Wails window seams at an in-memory geometry.
func installWindowSeams(t *testing.T, geo *fakeWindowGeometry) {
	t.Helper()
	origGetPos := runtimeWindowGetPositionFn
	origGetSize := runtimeWindowGetSizeFn
	origSetSize := runtimeWindowSetSizeFn
	origSetPos := runtimeWindowSetPositionFn
	t.Cleanup(func() {
		runtimeWindowGetPositionFn = origGetPos
		runtimeWindowGetSizeFn = origGetSize
		runtimeWindowSetSizeFn = origSetSize
		runtimeWindowSetPositionFn = origSetPos
	})

	runtimeWindowGetPositionFn = func(context.Context) (int, int) {
		geo.getPositionCalls++
		return geo.x, geo.y
	}
	runtimeWindowGetSizeFn = func(context.Context) (int, int) {
		return geo.w, geo.h
	}
	runtimeWindowSetSizeFn = func(_ context.Context, w, h int) {
		geo.setSizeCalls++
		geo.w = w
		geo.h = h
	}
	runtimeWindowSetPositionFn = func(_ context.Context, x, y int) {
		geo.setPositionCalls++
		geo.x = x
		geo.y = y
	}
}

func TestResizeOverlayKeepsWindowCenter(t *testing.T) {
	geo := &fakeWindowGeometry{x: 100, y: 200, w: 300, h: 120}
	installWindowSeams(t, geo)
	app := newTestApp(t)

	if err := app.ResizeOverlay("overlay", 500, 240); err != nil {
		t.Fatalf("ResizeOverlay() error = %v", err)
	}

	// Center was (250, 260); the new top-left keeps it there.
	if geo.w != 500 || geo.h != 240 {
		t.Fatalf("size = %dx%d, want 500x240", geo.w, geo.h)
	}
	if geo.x != 0 || geo.y != 140 {
		t.Fatalf("position = (%d, %d), want (0, 140)", geo.x, geo.y)
	}
}

func TestResizeOverlayClampsSmallRequests(t *testing.T) {
	geo := &fakeWindowGeometry{x: 0, y: 0, w: 100, h: 100}
	installWindowSeams(t, geo)
	app := newTestApp(t)

	if err := app.ResizeOverlay("overlay", 1, 1); err != nil {
		t.Fatalf("ResizeOverlay() error = %v", err)
	}
	if geo.w != 48 || geo.h != 48 {
		t.Fatalf("size = %dx%d, want 48x48", geo.w, geo.h)
	}
}

func TestResizeOverlayUnknownLabelIsNoOp(t *testing.T) {
	geo := &fakeWindowGeometry{x: 0, y: 0, w: 100, h: 100}
	installWindowSeams(t, geo)
	app := newTestApp(t)

	if err := app.ResizeOverlay("settings", 300, 300); err != nil {
		t.Fatalf("unknown label should be a no-op, got %v", err)
	}
	if geo.setSizeCalls != 0 || geo.setPositionCalls != 0 {
		t.Fatal("window geometry must not change for unknown labels")
	}
}

func TestResizeOverlayBeforeStartupIsNoOp(t *testing.T) {
	geo := &fakeWindowGeometry{x: 0, y: 0, w: 100, h: 100}
	installWindowSeams(t, geo)

	app := NewApp()
	app.overlayCtl = newOverlayController(app)
	// No runtime context yet: the resolver reports no window.
	if err := app.ResizeOverlay("overlay", 300, 300); err != nil {
		t.Fatalf("pre-startup resize should be a no-op, got %v", err)
	}
	if geo.setSizeCalls != 0 {
		t.Fatal("window geometry must not change before startup")
	}
}

func TestResizeOverlayWithoutControllerFails(t *testing.T) {
	app := NewApp()
	if err := app.ResizeOverlay("overlay", 300, 300); err == nil {
		t.Fatal("ResizeOverlay() should fail without a controller")
	}
}

func TestResizeOverlayRecomputesAnchorEachCall(t *testing.T) {
	geo := &fakeWindowGeometry{x: 400, y: 400, w: 200, h: 200}
	installWindowSeams(t, geo)
	app := newTestApp(t)

	if err := app.ResizeOverlay("overlay", 100, 100); err != nil {
		t.Fatalf("ResizeOverlay() error = %v", err)
	}
	// Simulate a user drag between resizes.
	geo.x, geo.y = 0, 0

	if err := app.ResizeOverlay("overlay", 300, 300); err != nil {
		t.Fatalf("ResizeOverlay() error = %v", err)
	}
	// New anchor center was (50, 50); 300x300 centers at (-100, -100).
	if geo.x != -100 || geo.y != -100 {
		t.Fatalf("position = (%d, %d), want (-100, -100)", geo.x, geo.y)
	}
}
