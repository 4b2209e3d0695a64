package settings

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	maxSettingsFileBytes int64 = 1 << 20 // 1MB
	maxRenameRetry             = 10
	// Windows file lock releases (antivirus/indexing) typically settle quickly.
	// Use a short linear backoff: baseDelay * (1..maxRenameRetry).
	renameRetryBaseDelay = 10 * time.Millisecond
)

// userHomeDirFn is a test seam; tests override it to simulate home-directory
// resolution failures in DefaultPath.
var userHomeDirFn = os.UserHomeDir

// DefaultPath resolves the settings file path, preferring LOCALAPPDATA over
// APPDATA, falling back to ~/.config when both are unset, and then to
// os.TempDir() if the home directory cannot be resolved.
// The temp-dir fallback is not a stable persistence location and may vary
// between sessions depending on environment configuration.
func DefaultPath() string {
	base := strings.TrimSpace(os.Getenv("LOCALAPPDATA"))
	if base == "" {
		base = strings.TrimSpace(os.Getenv("APPDATA"))
	}
	if base == "" {
		home, err := userHomeDirFn()
		if err != nil {
			slog.Warn("[settings] using temp dir as settings path fallback", "error", err)
			base = os.TempDir()
		} else {
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, "tambourine", "settings.yaml")
}

// Store persists AppSettings as a single YAML record on disk.
type Store struct {
	path string
}

// NewStore creates a Store writing to path. An empty path falls back to
// DefaultPath().
func NewStore(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. A missing file returns factory defaults.
// Hotkey slots left empty in the file are filled from factory defaults so a
// hand-edited record cannot strand the app without bindings.
func (s *Store) Load() (AppSettings, error) {
	st := DefaultSettings()

	raw, err := readLimitedFile(s.path, maxSettingsFileBytes)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return st, nil
		}
		return st, err
	}
	if len(raw) == 0 {
		return st, nil
	}
	if err := yaml.Unmarshal(raw, &st); err != nil {
		slog.Warn("[settings] failed to parse settings file, using defaults", "path", s.path, "error", err)
		return DefaultSettings(), err
	}
	applyDefaults(&st)
	return st, nil
}

// EnsureFile writes default settings if the file is missing and returns the
// loaded settings.
func (s *Store) EnsureFile() (AppSettings, error) {
	st, err := s.Load()
	if err != nil {
		return st, err
	}
	if _, statErr := os.Stat(s.path); errors.Is(statErr, os.ErrNotExist) {
		if saveErr := s.Save(st); saveErr != nil {
			return st, saveErr
		}
	}
	return st, nil
}

// Save atomically writes st to the backing file.
func (s *Store) Save(st AppSettings) error {
	raw, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("save settings: marshal: %w", err)
	}
	if err := atomicWrite(s.path, raw); err != nil {
		return err
	}
	slog.Debug("[settings] settings saved", "path", s.path)
	return nil
}

// applyDefaults fills missing values in-place. A fully zero record becomes
// the factory defaults; otherwise only empty hotkey slots are repaired.
func applyDefaults(st *AppSettings) {
	if reflect.DeepEqual(*st, AppSettings{}) {
		*st = DefaultSettings()
		return
	}
	if st.ToggleHotkey.Key == "" {
		st.ToggleHotkey = DefaultToggleHotkey()
	}
	if st.HoldHotkey.Key == "" {
		st.HoldHotkey = DefaultHoldHotkey()
	}
	if st.PasteLastHotkey.Key == "" {
		st.PasteLastHotkey = DefaultPasteLastHotkey()
	}
}

// atomicWrite writes settings data using temp-file + rename to avoid partial
// writes and retries rename on Windows to tolerate transient file locks.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save settings: mkdir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".settings.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("save settings: create temp: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			if closeErr := tmpFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
				slog.Warn("[settings] failed to close temp file", "path", tmpPath, "error", closeErr)
			}
		}
		if err != nil {
			if removeErr := os.Remove(tmpPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				slog.Warn("[settings] failed to remove temp file", "path", tmpPath, "error", removeErr)
			}
		}
	}()

	if err = tmpFile.Chmod(0o600); err != nil {
		return fmt.Errorf("save settings: chmod temp: %w", err)
	}
	if _, err = tmpFile.Write(data); err != nil {
		return fmt.Errorf("save settings: write: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("save settings: sync: %w", err)
	}
	err = tmpFile.Close()
	tmpFile = nil
	if err != nil {
		return fmt.Errorf("save settings: close: %w", err)
	}

	if err = renameFileWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("save settings: rename: %w", err)
	}
	return nil
}

func renameFileWithRetry(sourcePath string, targetPath string) error {
	var lastErr error
	for attempt := range maxRenameRetry {
		err := os.Rename(sourcePath, targetPath)
		if err == nil {
			return nil
		}
		lastErr = err
		if runtime.GOOS != "windows" {
			return err
		}
		time.Sleep(time.Duration(attempt+1) * renameRetryBaseDelay)
	}
	return lastErr
}

func readLimitedFile(path string, maxBytes int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	limited := io.LimitReader(file, maxBytes+1)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > maxBytes {
		return nil, fmt.Errorf("settings file exceeds %d bytes", maxBytes)
	}
	return raw, nil
}
