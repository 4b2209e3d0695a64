package settings

import (
	"errors"
	"fmt"
	"strings"
)

// HotkeySlot identifies one of the three configurable hotkey slots.
type HotkeySlot string

const (
	SlotToggle    HotkeySlot = "toggle"
	SlotHold      HotkeySlot = "hold"
	SlotPasteLast HotkeySlot = "paste_last"
)

// DisplayName returns the slot name for user-facing log lines.
func (s HotkeySlot) DisplayName() string {
	switch s {
	case SlotToggle:
		return "Toggle"
	case SlotHold:
		return "Hold"
	case SlotPasteLast:
		return "Paste last"
	default:
		return string(s)
	}
}

// ErrShortcutConflict marks duplicate-shortcut validation failures so callers
// can match on kind instead of message text.
var ErrShortcutConflict = errors.New("shortcut conflict")

// ValidateNoDuplicateShortcut checks candidate against every configured
// hotkey slot except exclude. Slots are checked in the fixed order toggle,
// hold, paste_last and the first collision wins. The error message names the
// colliding slot with underscores replaced by spaces.
func ValidateNoDuplicateShortcut(candidate HotkeyConfig, current AppSettings, exclude HotkeySlot) error {
	slots := []struct {
		slot   HotkeySlot
		hotkey HotkeyConfig
	}{
		{SlotToggle, current.ToggleHotkey},
		{SlotHold, current.HoldHotkey},
		{SlotPasteLast, current.PasteLastHotkey},
	}

	for _, entry := range slots {
		if entry.slot == exclude {
			continue
		}
		if candidate.IsSameAs(entry.hotkey) {
			return fmt.Errorf("%w: this shortcut is already used for the %s hotkey",
				ErrShortcutConflict, strings.ReplaceAll(string(entry.slot), "_", " "))
		}
	}
	return nil
}
