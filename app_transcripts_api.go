package main

import (
	"errors"

	"github.com/VibeProjects/tambourine-voice/internal/transcripts"
)

// defaultRecentTranscripts caps ListRecentTranscripts when the frontend
// passes a non-positive limit.
const defaultRecentTranscripts = 20

// RecordTranscript stores a finalized dictation and pushes it to the overlay
// status stream.
func (a *App) RecordTranscript(rawText, cleanText, provider string) (transcripts.Transcript, error) {
	store, err := a.requireTranscripts()
	if err != nil {
		return transcripts.Transcript{}, err
	}
	rec, err := store.Add(rawText, cleanText, provider)
	if err != nil {
		return transcripts.Transcript{}, err
	}
	if a.wsHub != nil {
		a.wsHub.BroadcastTranscript(rec.ID, rec.CleanText, rec.Provider)
	}
	a.emitRuntimeEvent("transcripts:recorded", rec)
	return rec, nil
}

// GetLastTranscript returns the most recent dictation.
func (a *App) GetLastTranscript() (transcripts.Transcript, error) {
	store, err := a.requireTranscripts()
	if err != nil {
		return transcripts.Transcript{}, err
	}
	return store.Last()
}

// ListRecentTranscripts returns up to limit dictations, newest first.
func (a *App) ListRecentTranscripts(limit int) ([]transcripts.Transcript, error) {
	store, err := a.requireTranscripts()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentTranscripts
	}
	return store.Recent(limit)
}

// PasteLastTranscript copies the most recent cleaned transcript to the
// system clipboard. Returns the transcript that was copied.
func (a *App) PasteLastTranscript() (transcripts.Transcript, error) {
	store, err := a.requireTranscripts()
	if err != nil {
		return transcripts.Transcript{}, err
	}
	rec, err := store.Last()
	if err != nil {
		return transcripts.Transcript{}, err
	}

	ctx := a.runtimeContext()
	if ctx == nil {
		return transcripts.Transcript{}, errors.New("app context is not ready")
	}
	if err := runtimeClipboardSetTextFn(ctx, rec.CleanText); err != nil {
		return transcripts.Transcript{}, err
	}
	a.emitRuntimeEvent("transcripts:pasted", map[string]string{"id": rec.ID})
	return rec, nil
}

// BroadcastPartialTranscript pushes interim transcription text to the
// overlay while a dictation is in flight.
func (a *App) BroadcastPartialTranscript(text string) {
	if a.wsHub != nil {
		a.wsHub.BroadcastPartial(text)
	}
}
