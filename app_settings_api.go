package main

import (
	"log/slog"

	"github.com/VibeProjects/tambourine-voice/internal/settings"
)

// GetSettings returns the current settings snapshot.
func (a *App) GetSettings() (settings.AppSettings, error) {
	manager, err := a.requireSettings()
	if err != nil {
		return settings.AppSettings{}, err
	}
	return manager.Get()
}

// GetSettingsAndFlushWarnings returns the settings snapshot and emits any
// pending startup warnings. The frontend calls this on mount.
func (a *App) GetSettingsAndFlushWarnings() (settings.AppSettings, error) {
	a.flushStartupWarnings()
	return a.GetSettings()
}

// SaveSettings persists a whole settings record. Bulk saves skip hotkey
// conflict validation; the settings UI validates per-slot edits through the
// live update methods.
func (a *App) SaveSettings(st settings.AppSettings) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.Update(st); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateToggleHotkey writes the toggle-recording shortcut without conflict
// validation. Takes effect after restart.
func (a *App) UpdateToggleHotkey(hotkey settings.HotkeyConfig) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateToggleHotkey(hotkey); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateHoldHotkey writes the push-to-talk shortcut without conflict
// validation. Takes effect after restart.
func (a *App) UpdateHoldHotkey(hotkey settings.HotkeyConfig) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateHoldHotkey(hotkey); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdatePasteLastHotkey writes the paste-last-transcript shortcut without
// conflict validation. Takes effect after restart.
func (a *App) UpdatePasteLastHotkey(hotkey settings.HotkeyConfig) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdatePasteLastHotkey(hotkey); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateToggleHotkeyLive validates the shortcut against the other slots and
// the key vocabulary before persisting it.
func (a *App) UpdateToggleHotkeyLive(hotkey settings.HotkeyConfig) error {
	return a.updateHotkeyLive(settings.SlotToggle, hotkey)
}

// UpdateHoldHotkeyLive validates the shortcut against the other slots and
// the key vocabulary before persisting it.
func (a *App) UpdateHoldHotkeyLive(hotkey settings.HotkeyConfig) error {
	return a.updateHotkeyLive(settings.SlotHold, hotkey)
}

// UpdatePasteLastHotkeyLive validates the shortcut against the other slots
// and the key vocabulary before persisting it.
func (a *App) UpdatePasteLastHotkeyLive(hotkey settings.HotkeyConfig) error {
	return a.updateHotkeyLive(settings.SlotPasteLast, hotkey)
}

func (a *App) updateHotkeyLive(slot settings.HotkeySlot, hotkey settings.HotkeyConfig) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateHotkeyLive(slot, hotkey); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// ResetHotkeysToDefaults restores the factory hotkey assignments. The
// returned flag tells the frontend a restart is needed before the new
// bindings take effect.
func (a *App) ResetHotkeysToDefaults() (bool, error) {
	manager, err := a.requireSettings()
	if err != nil {
		return false, err
	}
	restartNeeded, err := manager.ResetHotkeysToDefaults()
	if err != nil {
		return false, err
	}
	a.emitSettingsUpdated()
	return restartNeeded, nil
}

// UpdateSelectedMic persists the preferred input device. nil clears the
// preference back to the system default.
func (a *App) UpdateSelectedMic(mic *string) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateSelectedMic(mic); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateSoundEnabled persists the start/stop sound preference.
func (a *App) UpdateSoundEnabled(enabled bool) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateSoundEnabled(enabled); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateCleanupPromptSections persists the transcript cleanup prompt
// configuration. nil restores the built-in prompt.
func (a *App) UpdateCleanupPromptSections(sections *settings.CleanupPromptSections) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateCleanupPromptSections(sections); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateSTTProvider persists the speech-to-text provider selection.
func (a *App) UpdateSTTProvider(provider *string) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateSTTProvider(provider); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateLLMProvider persists the cleanup LLM provider selection.
func (a *App) UpdateLLMProvider(provider *string) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateLLMProvider(provider); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateAutoMuteAudio persists the auto-mute-while-recording preference.
func (a *App) UpdateAutoMuteAudio(enabled bool) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateAutoMuteAudio(enabled); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// UpdateSTTTimeout persists the transcription timeout in seconds. nil
// restores the provider default.
func (a *App) UpdateSTTTimeout(seconds *float64) error {
	manager, err := a.requireSettings()
	if err != nil {
		return err
	}
	if err := manager.UpdateSTTTimeout(seconds); err != nil {
		return err
	}
	a.emitSettingsUpdated()
	return nil
}

// emitSettingsUpdated pushes the post-mutation snapshot to the frontend.
func (a *App) emitSettingsUpdated() {
	manager, err := a.requireSettings()
	if err != nil {
		return
	}
	st, err := manager.Get()
	if err != nil {
		slog.Warn("[settings] skipped settings:updated emission", "error", err)
		return
	}
	a.emitRuntimeEvent("settings:updated", st)
}
