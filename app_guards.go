package main

import (
	"errors"

	"github.com/VibeProjects/tambourine-voice/internal/overlay"
	"github.com/VibeProjects/tambourine-voice/internal/settings"
	"github.com/VibeProjects/tambourine-voice/internal/transcripts"
)

func (a *App) requireSettings() (*settings.Manager, error) {
	if a.settings == nil {
		return nil, errors.New("settings manager is unavailable")
	}
	return a.settings, nil
}

func (a *App) requireTranscripts() (*transcripts.Store, error) {
	if a.transcripts == nil {
		return nil, errors.New("transcript history is unavailable")
	}
	return a.transcripts, nil
}

func (a *App) requireOverlay() (*overlay.Controller, error) {
	if a.overlayCtl == nil {
		return nil, errors.New("overlay controller is unavailable")
	}
	return a.overlayCtl, nil
}
