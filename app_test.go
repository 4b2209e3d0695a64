package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/VibeProjects/tambourine-voice/internal/settings"
	"github.com/VibeProjects/tambourine-voice/internal/transcripts"
)

// NOTE: these tests override package-level seams, so do not use t.Parallel().

type recordedEvent struct {
	name    string
	payload any
}

type eventRecorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *eventRecorder) record(_ context.Context, name string, payload ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var p any
	if len(payload) > 0 {
		p = payload[0]
	}
	r.events = append(r.events, recordedEvent{name: name, payload: p})
}

func (r *eventRecorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.name
	}
	return out
}

func (r *eventRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.name == name {
			n++
		}
	}
	return n
}

// captureEvents swaps the event emission seam for the test's duration.
func captureEvents(t *testing.T) *eventRecorder {
	t.Helper()
	recorder := &eventRecorder{}
	orig := runtimeEventsEmitFn
	runtimeEventsEmitFn = recorder.record
	t.Cleanup(func() { runtimeEventsEmitFn = orig })
	return recorder
}

// newTestApp builds an App with a runtime context, a settings manager over a
// temp store, and a transcript store over a temp database.
func newTestApp(t *testing.T) *App {
	t.Helper()
	app := NewApp()
	app.setRuntimeContext(context.Background())

	manager, err := settings.NewManager(settings.NewStore(filepath.Join(t.TempDir(), "settings.yaml")))
	if err != nil {
		t.Fatalf("settings.NewManager() error = %v", err)
	}
	app.settings = manager

	store, err := transcripts.Open(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("transcripts.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	app.transcripts = store

	app.overlayCtl = newOverlayController(app)
	return app
}
