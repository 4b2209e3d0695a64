package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "settings.yaml"))
}

func TestDefaultPathPrefersLocalAppData(t *testing.T) {
	local := t.TempDir()
	t.Setenv("LOCALAPPDATA", local)
	t.Setenv("APPDATA", t.TempDir())

	got := DefaultPath()
	want := filepath.Join(local, "tambourine", "settings.yaml")
	if got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestDefaultPathFallsBackToHomeConfig(t *testing.T) {
	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("APPDATA", "")
	home := t.TempDir()
	origHome := userHomeDirFn
	t.Cleanup(func() { userHomeDirFn = origHome })
	userHomeDirFn = func() (string, error) { return home, nil }

	got := DefaultPath()
	want := filepath.Join(home, ".config", "tambourine", "settings.yaml")
	if got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	store := newTestStore(t)
	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !st.ToggleHotkey.IsSameAs(DefaultToggleHotkey()) {
		t.Fatalf("toggle hotkey = %+v, want factory default", st.ToggleHotkey)
	}
	if !st.SoundEnabled {
		t.Fatal("SoundEnabled should default to true")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	mic := "mic-42"
	timeout := 45.0
	st := DefaultSettings()
	st.ToggleHotkey = HotkeyConfig{Key: "F5", Modifiers: []string{"Ctrl", "Shift"}}
	st.SelectedMic = &mic
	st.STTTimeoutSeconds = &timeout
	st.AutoMuteAudio = true
	st.CleanupPromptSections = &CleanupPromptSections{RemoveFillers: true, CustomInstructions: "keep numerals"}

	if err := store.Save(st); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.ToggleHotkey.IsSameAs(st.ToggleHotkey) {
		t.Fatalf("toggle hotkey = %+v, want %+v", loaded.ToggleHotkey, st.ToggleHotkey)
	}
	if loaded.SelectedMic == nil || *loaded.SelectedMic != mic {
		t.Fatalf("SelectedMic = %v, want %q", loaded.SelectedMic, mic)
	}
	if loaded.STTTimeoutSeconds == nil || *loaded.STTTimeoutSeconds != timeout {
		t.Fatalf("STTTimeoutSeconds = %v, want %v", loaded.STTTimeoutSeconds, timeout)
	}
	if !loaded.AutoMuteAudio {
		t.Fatal("AutoMuteAudio not persisted")
	}
	if loaded.CleanupPromptSections == nil || loaded.CleanupPromptSections.CustomInstructions != "keep numerals" {
		t.Fatalf("CleanupPromptSections = %+v", loaded.CleanupPromptSections)
	}
}

func TestLoadRepairsEmptyHotkeySlots(t *testing.T) {
	store := newTestStore(t)
	raw := "sound_enabled: false\nauto_mute_audio: true\n"
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte(raw), 0o600); err != nil {
		t.Fatal(err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.SoundEnabled {
		t.Fatal("explicit sound_enabled: false was overwritten")
	}
	if !st.HoldHotkey.IsSameAs(DefaultHoldHotkey()) {
		t.Fatalf("empty hold slot not repaired, got %+v", st.HoldHotkey)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not yaml: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	st, err := store.Load()
	if err == nil {
		t.Fatal("expected parse error")
	}
	// Defaults are still returned so the app can start.
	if !st.ToggleHotkey.IsSameAs(DefaultToggleHotkey()) {
		t.Fatalf("malformed file should yield defaults, got %+v", st.ToggleHotkey)
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	huge := "# " + strings.Repeat("x", int(maxSettingsFileBytes)+16) + "\n"
	if err := os.WriteFile(store.Path(), []byte(huge), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected size-limit error, got %v", err)
	}
}

func TestEnsureFileCreatesDefaultFile(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.EnsureFile(); err != nil {
		t.Fatalf("EnsureFile() error = %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("settings file not created: %v", err)
	}
}
