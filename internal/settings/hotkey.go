package settings

import (
	"strings"

	"github.com/VibeProjects/tambourine-voice/internal/hotkeys"
)

// HotkeyConfig is one configurable key + modifier combination. Values are
// immutable once constructed; updates replace the whole value.
type HotkeyConfig struct {
	Key       string   `json:"key" yaml:"key"`
	Modifiers []string `json:"modifiers" yaml:"modifiers"`
}

// shortcutModifierRewrites maps vendor modifier spellings onto the
// vendor-neutral names used by the global-hotkey layer. alt and shift are
// already canonical and pass through untouched.
var shortcutModifierRewrites = map[string]string{
	"ctrl": "control",
	"cmd":  "super",
	"win":  "super",
	"meta": "super",
}

// NormalizeShortcutString rewrites a raw shortcut string into its canonical
// lowercase vendor-neutral form. Segment order is preserved; the rewrite
// table applies to every segment, so a bare "ctrl" still becomes "control".
// Total function: never fails, empty input yields empty output.
func NormalizeShortcutString(raw string) string {
	segments := strings.Split(raw, "+")
	for i, segment := range segments {
		segment = strings.ToLower(segment)
		if replacement, ok := shortcutModifierRewrites[segment]; ok {
			segment = replacement
		}
		segments[i] = segment
	}
	return strings.Join(segments, "+")
}

// ToShortcutString builds the display-oriented canonical string: modifiers
// lowercased in insertion order, key case preserved verbatim.
// Example: {Key: "Space", Modifiers: ["Ctrl", "Alt"]} -> "ctrl+alt+Space".
func (h HotkeyConfig) ToShortcutString() string {
	parts := make([]string, 0, len(h.Modifiers)+1)
	for _, modifier := range h.Modifiers {
		parts = append(parts, strings.ToLower(modifier))
	}
	parts = append(parts, h.Key)
	return strings.Join(parts, "+")
}

// IsSameAs reports whether two hotkeys denote the same key combination:
// keys equal case-insensitively and case-folded modifier sets identical.
// Modifier order and duplicates are irrelevant.
func (h HotkeyConfig) IsSameAs(other HotkeyConfig) bool {
	if !strings.EqualFold(h.Key, other.Key) {
		return false
	}
	mine := foldModifierSet(h.Modifiers)
	theirs := foldModifierSet(other.Modifiers)
	if len(mine) != len(theirs) {
		return false
	}
	for modifier := range mine {
		if _, ok := theirs[modifier]; !ok {
			return false
		}
	}
	return true
}

func foldModifierSet(modifiers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(modifiers))
	for _, modifier := range modifiers {
		set[strings.ToLower(modifier)] = struct{}{}
	}
	return set
}

// ToBinding parses the hotkey against the global-hotkey vocabulary. It is a
// pure validation gate: registration itself happens elsewhere, at startup.
func (h HotkeyConfig) ToBinding() (hotkeys.Binding, error) {
	return hotkeys.ParseBinding(NormalizeShortcutString(h.ToShortcutString()))
}

// DefaultToggleHotkey returns the factory toggle-recording hotkey.
func DefaultToggleHotkey() HotkeyConfig {
	return HotkeyConfig{Key: "Space", Modifiers: []string{"Ctrl", "Alt"}}
}

// DefaultHoldHotkey returns the factory hold-to-record hotkey.
func DefaultHoldHotkey() HotkeyConfig {
	return HotkeyConfig{Key: "Backquote", Modifiers: []string{"Ctrl", "Alt"}}
}

// DefaultPasteLastHotkey returns the factory paste-last-transcript hotkey.
func DefaultPasteLastHotkey() HotkeyConfig {
	return HotkeyConfig{Key: "V", Modifiers: []string{"Ctrl", "Alt"}}
}

func cloneHotkey(src HotkeyConfig) HotkeyConfig {
	dst := src
	if src.Modifiers != nil {
		dst.Modifiers = make([]string, len(src.Modifiers))
		copy(dst.Modifiers, src.Modifiers)
	}
	return dst
}
