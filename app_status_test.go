package main

import "testing"

func TestRecorderStatusDefaultsToIdle(t *testing.T) {
	app := newTestApp(t)
	status := app.GetRecorderStatus()
	if status.Recording || status.PTTKeyHeld || status.PasteKeyHeld {
		t.Fatalf("status = %+v, want all false", status)
	}
}

func TestSetRecordingStateBroadcastsOnChange(t *testing.T) {
	recorder := captureEvents(t)
	app := newTestApp(t)

	if previous := app.SetRecordingState(true); previous {
		t.Fatal("previous recording state should be false")
	}
	if recorder.count("recorder:status") != 1 {
		t.Fatalf("events = %v, want one recorder:status", recorder.names())
	}
	if !app.GetRecorderStatus().Recording {
		t.Fatal("recording flag not set")
	}
}

func TestSetRecordingStateSkipsRedundantBroadcast(t *testing.T) {
	recorder := captureEvents(t)
	app := newTestApp(t)

	app.SetRecordingState(true)
	if previous := app.SetRecordingState(true); !previous {
		t.Fatal("previous recording state should be true")
	}
	if recorder.count("recorder:status") != 1 {
		t.Fatalf("redundant transition emitted extra events: %v", recorder.names())
	}
}

func TestKeyHoldFlagsAreIndependent(t *testing.T) {
	captureEvents(t)
	app := newTestApp(t)

	app.SetPTTKeyHeld(true)
	app.SetPasteKeyHeld(true)
	app.SetPTTKeyHeld(false)

	status := app.GetRecorderStatus()
	if status.PTTKeyHeld {
		t.Fatal("PTT flag should be cleared")
	}
	if !status.PasteKeyHeld {
		t.Fatal("paste flag should still be held")
	}
	if status.Recording {
		t.Fatal("recording flag should be untouched")
	}
}
