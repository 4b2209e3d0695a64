package hotkeys

import (
	"fmt"
	"strings"
)

// modifierByName maps every accepted modifier spelling to its bitmask.
// Vendor aliases (cmd, win, meta) collapse onto the same bits so that
// bindings written for any platform vocabulary compare equal.
var modifierByName = map[string]Modifier{
	"CTRL":    ModControl,
	"CONTROL": ModControl,
	"SHIFT":   ModShift,
	"ALT":     ModAlt,
	"OPTION":  ModAlt,
	"WIN":     ModSuper,
	"SUPER":   ModSuper,
	"CMD":     ModSuper,
	"COMMAND": ModSuper,
	"META":    ModSuper,
}

var keyByName = map[string]string{
	"SPACE":     "Space",
	"TAB":       "Tab",
	"ENTER":     "Enter",
	"RETURN":    "Enter",
	"ESC":       "Escape",
	"ESCAPE":    "Escape",
	"BACKSPACE": "Backspace",
	"DELETE":    "Delete",
	"INSERT":    "Insert",
	"HOME":      "Home",
	"END":       "End",
	"PAGEUP":    "PageUp",
	"PAGEDOWN":  "PageDown",
	"LEFT":      "Left",
	"RIGHT":     "Right",
	"UP":        "Up",
	"DOWN":      "Down",
	"BACKQUOTE": "Backquote",
	"GRAVE":     "Backquote",
	"`":         "Backquote",
	"COMMA":     "Comma",
	"PERIOD":    "Period",
	"SLASH":     "Slash",
	"BACKSLASH": "Backslash",
	"SEMICOLON": "Semicolon",
	"QUOTE":     "Quote",
	"MINUS":     "Minus",
	"EQUAL":     "Equal",
}

// functionKeys holds F1 through F24.
var functionKeys = func() map[string]string {
	keys := make(map[string]string, 24)
	for n := 1; n <= 24; n++ {
		name := fmt.Sprintf("F%d", n)
		keys[name] = name
	}
	return keys
}()

// ParseBinding parses a binding like "Ctrl+Shift+Space" or "control+alt+v".
// Modifier and key tokens are matched case-insensitively against the fixed
// vocabulary; anything outside it is an error. At least one modifier is
// required: a bare key would fire on plain typing when registered globally.
func ParseBinding(spec string) (Binding, error) {
	raw := strings.TrimSpace(spec)
	if raw == "" {
		return Binding{}, fmt.Errorf("hotkey spec is empty")
	}

	parts := strings.Split(raw, "+")
	if len(parts) < 2 {
		return Binding{}, fmt.Errorf("hotkey must include modifiers and key: %s", raw)
	}

	var modifiers Modifier
	seen := map[Modifier]struct{}{}
	var normalizedMods []string

	for _, token := range parts[:len(parts)-1] {
		name := strings.ToUpper(strings.TrimSpace(token))
		mod, ok := modifierByName[name]
		if !ok {
			return Binding{}, fmt.Errorf("unknown modifier %q in hotkey %q", token, raw)
		}
		if _, exists := seen[mod]; exists {
			continue
		}
		seen[mod] = struct{}{}
		modifiers |= mod
		normalizedMods = append(normalizedMods, normalizeModifierName(mod))
	}

	keyToken := strings.TrimSpace(parts[len(parts)-1])
	key, err := parseKey(keyToken)
	if err != nil {
		return Binding{}, err
	}

	if modifiers == 0 {
		return Binding{}, fmt.Errorf("at least one modifier is required: %q", raw)
	}

	normalized := strings.Join(append(normalizedMods, key), "+")
	return Binding{
		modifiers:  modifiers,
		key:        key,
		normalized: normalized,
	}, nil
}

func parseKey(raw string) (string, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return "", fmt.Errorf("missing hotkey key token")
	}

	if key, ok := functionKeys[token]; ok {
		return key, nil
	}
	if key, ok := keyByName[token]; ok {
		return key, nil
	}

	if len(token) == 1 {
		ch := token[0]
		if ch >= 'A' && ch <= 'Z' {
			return token, nil
		}
		if ch >= '0' && ch <= '9' {
			return token, nil
		}
	}

	return "", fmt.Errorf("unknown key %q in hotkey spec", raw)
}

func normalizeModifierName(mod Modifier) string {
	switch mod {
	case ModControl:
		return "Ctrl"
	case ModShift:
		return "Shift"
	case ModAlt:
		return "Alt"
	case ModSuper:
		return "Super"
	default:
		return "Mod"
	}
}
