package settings

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounceWindow coalesces the create+rename event pairs produced by
// the store's atomic temp-file write into a single reload.
const reloadDebounceWindow = 100 * time.Millisecond

// Watcher reloads the manager when the settings file changes on disk outside
// the app (hand edits, sync tools). The parent directory is watched rather
// than the file itself because atomic saves replace the file via rename.
//
// Saves made through the Manager also trigger a reload; the re-read is
// idempotent since the file content already matches the in-memory record.
type Watcher struct {
	manager  *Manager
	onReload func(AppSettings)

	mu            sync.Mutex
	fsw           *fsnotify.Watcher
	started       bool
	debounceTimer *time.Timer
	wg            sync.WaitGroup
	closeOnce     sync.Once
}

// NewWatcher creates a watcher for manager's backing file. onReload may be
// nil; when set it receives the reloaded settings snapshot.
func NewWatcher(manager *Manager, onReload func(AppSettings)) *Watcher {
	return &Watcher{manager: manager, onReload: onReload}
}

// Start begins watching the settings directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("settings watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("settings watcher: %w", err)
	}
	dir := filepath.Dir(w.manager.store.Path())
	if err := fsw.Add(dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			slog.Warn("[settings] failed to close watcher after add failure", "error", closeErr)
		}
		return fmt.Errorf("settings watcher: watch %s: %w", dir, err)
	}

	w.fsw = fsw
	w.started = true
	w.wg.Add(1)
	go w.eventLoop(fsw)
	return nil
}

// Close stops the watcher. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		fsw := w.fsw
		w.fsw = nil
		w.started = false
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
			w.debounceTimer = nil
		}
		w.mu.Unlock()

		if fsw != nil {
			err = fsw.Close()
		}
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) eventLoop(fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	target := filepath.Clean(w.manager.store.Path())

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.scheduleReload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("[settings] watcher error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(reloadDebounceWindow, w.reload)
}

func (w *Watcher) reload() {
	st, err := w.manager.Reload()
	if err != nil {
		slog.Warn("[settings] reload after external change failed", "error", err)
		return
	}
	slog.Info("[settings] settings reloaded after external change")
	if w.onReload != nil {
		w.onReload(st)
	}
}
