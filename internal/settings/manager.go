package settings

import (
	"fmt"
	"log/slog"
	"sync"
)

// Manager is the single process-wide owner of AppSettings. Every operation
// holds the mutex for its full duration; persistence is write-through — the
// disk write is checked before the in-memory record is replaced, so a failed
// save leaves the current settings untouched.
type Manager struct {
	mu      sync.Mutex
	store   *Store
	current AppSettings
}

// NewManager loads (creating if missing) the settings file and returns the
// manager owning it.
func NewManager(store *Store) (*Manager, error) {
	st, err := store.EnsureFile()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return &Manager{store: store, current: st}, nil
}

// Get returns a deep copy of the current settings.
func (m *Manager) Get() (AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Clone(m.current), nil
}

// Update replaces the whole settings record. No conflict validation runs on
// this path; bulk saves are the caller's responsibility.
func (m *Manager) Update(st AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaceLocked(st)
}

// Reload re-reads the settings file and replaces the in-memory record.
// Used when the file changes outside the app (see Watcher).
func (m *Manager) Reload() (AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, err := m.store.Load()
	if err != nil {
		return AppSettings{}, err
	}
	m.current = st
	return Clone(st), nil
}

// replaceLocked persists st and, only on success, makes it current.
// Callers must hold m.mu.
func (m *Manager) replaceLocked(st AppSettings) error {
	if err := m.store.Save(st); err != nil {
		return err
	}
	m.current = Clone(st)
	return nil
}

// mutate applies one field change to a copy of the current settings and
// persists it write-through. Callers must not hold m.mu.
func (m *Manager) mutate(apply func(*AppSettings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := Clone(m.current)
	apply(&next)
	return m.replaceLocked(next)
}

// UpdateToggleHotkey replaces the toggle slot without conflict validation.
func (m *Manager) UpdateToggleHotkey(h HotkeyConfig) error {
	return m.mutate(func(st *AppSettings) { st.ToggleHotkey = h })
}

// UpdateHoldHotkey replaces the hold slot without conflict validation.
func (m *Manager) UpdateHoldHotkey(h HotkeyConfig) error {
	return m.mutate(func(st *AppSettings) { st.HoldHotkey = h })
}

// UpdatePasteLastHotkey replaces the paste-last slot without conflict validation.
func (m *Manager) UpdatePasteLastHotkey(h HotkeyConfig) error {
	return m.mutate(func(st *AppSettings) { st.PasteLastHotkey = h })
}

// UpdateSelectedMic sets the selected microphone device id (nil clears it).
func (m *Manager) UpdateSelectedMic(micID *string) error {
	return m.mutate(func(st *AppSettings) { st.SelectedMic = cloneStringPtr(micID) })
}

// UpdateSoundEnabled sets the notification-sound flag.
func (m *Manager) UpdateSoundEnabled(enabled bool) error {
	return m.mutate(func(st *AppSettings) { st.SoundEnabled = enabled })
}

// UpdateCleanupPromptSections sets the cleanup prompt section selection.
func (m *Manager) UpdateCleanupPromptSections(sections *CleanupPromptSections) error {
	return m.mutate(func(st *AppSettings) {
		if sections == nil {
			st.CleanupPromptSections = nil
			return
		}
		copied := *sections
		st.CleanupPromptSections = &copied
	})
}

// UpdateSTTProvider sets the speech-to-text provider identifier.
func (m *Manager) UpdateSTTProvider(provider *string) error {
	return m.mutate(func(st *AppSettings) { st.STTProvider = cloneStringPtr(provider) })
}

// UpdateLLMProvider sets the cleanup LLM provider identifier.
func (m *Manager) UpdateLLMProvider(provider *string) error {
	return m.mutate(func(st *AppSettings) { st.LLMProvider = cloneStringPtr(provider) })
}

// UpdateAutoMuteAudio sets the auto-mute-while-recording flag.
func (m *Manager) UpdateAutoMuteAudio(enabled bool) error {
	return m.mutate(func(st *AppSettings) { st.AutoMuteAudio = enabled })
}

// UpdateSTTTimeout sets the transcription timeout in seconds (nil clears it).
func (m *Manager) UpdateSTTTimeout(timeoutSeconds *float64) error {
	return m.mutate(func(st *AppSettings) {
		if timeoutSeconds == nil {
			st.STTTimeoutSeconds = nil
			return
		}
		timeout := *timeoutSeconds
		st.STTTimeoutSeconds = &timeout
	})
}

// UpdateHotkeyLive replaces one hotkey slot with full validation: the
// candidate must not collide with either other slot and must parse against
// the global-hotkey vocabulary. OS-level registration happens at startup, so
// a restart is still required for the new binding to take effect.
func (m *Manager) UpdateHotkeyLive(slot HotkeySlot, h HotkeyConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ValidateNoDuplicateShortcut(h, m.current, slot); err != nil {
		return err
	}
	if _, err := h.ToBinding(); err != nil {
		return fmt.Errorf("invalid shortcut %q: %w", h.ToShortcutString(), err)
	}

	next := Clone(m.current)
	switch slot {
	case SlotToggle:
		next.ToggleHotkey = h
	case SlotHold:
		next.HoldHotkey = h
	case SlotPasteLast:
		next.PasteLastHotkey = h
	default:
		return fmt.Errorf("unknown hotkey slot %q", slot)
	}

	if err := m.replaceLocked(next); err != nil {
		return err
	}
	slog.Info("[settings] hotkey updated, restart required for changes to take effect",
		"slot", slot.DisplayName(), "shortcut", h.ToShortcutString())
	return nil
}

// ResetHotkeysToDefaults overwrites all three slots with factory defaults.
// Defaults are defined non-colliding, so no conflict validation runs.
// Returns true to signal the caller that a restart is needed.
func (m *Manager) ResetHotkeysToDefaults() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := Clone(m.current)
	next.ToggleHotkey = DefaultToggleHotkey()
	next.HoldHotkey = DefaultHoldHotkey()
	next.PasteLastHotkey = DefaultPasteLastHotkey()

	if err := m.replaceLocked(next); err != nil {
		return false, err
	}
	slog.Info("[settings] hotkeys reset to defaults, restart required for changes to take effect")
	return true, nil
}
