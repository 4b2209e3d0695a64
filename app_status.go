package main

// RecorderStatus is the flag set the frontend polls on mount; subsequent
// changes arrive as recorder:status events and status stream frames.
type RecorderStatus struct {
	Recording    bool `json:"recording"`
	PTTKeyHeld   bool `json:"ptt_key_held"`
	PasteKeyHeld bool `json:"paste_key_held"`
}

// GetRecorderStatus returns the current recorder flags.
func (a *App) GetRecorderStatus() RecorderStatus {
	return RecorderStatus{
		Recording:    a.recording.Load(),
		PTTKeyHeld:   a.pttKeyHeld.Load(),
		PasteKeyHeld: a.pasteKeyHeld.Load(),
	}
}

// SetRecordingState updates the recording flag and broadcasts the change.
// Returns the previous value so callers can detect redundant transitions.
func (a *App) SetRecordingState(recording bool) bool {
	previous := a.recording.Swap(recording)
	if previous != recording {
		a.broadcastRecorderStatus()
	}
	return previous
}

// SetPTTKeyHeld updates the push-to-talk key flag and broadcasts the change.
func (a *App) SetPTTKeyHeld(held bool) bool {
	previous := a.pttKeyHeld.Swap(held)
	if previous != held {
		a.broadcastRecorderStatus()
	}
	return previous
}

// SetPasteKeyHeld updates the paste-shortcut key flag and broadcasts the change.
func (a *App) SetPasteKeyHeld(held bool) bool {
	previous := a.pasteKeyHeld.Swap(held)
	if previous != held {
		a.broadcastRecorderStatus()
	}
	return previous
}
