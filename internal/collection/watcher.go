package collection

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps an up-to-date immutable Collection snapshot for a collection
// export file. On every change it loads a fresh Collection and swaps it in
// atomically; snapshots handed out earlier remain valid and unchanged.
type Watcher struct {
	path     string
	interval time.Duration
	current  atomic.Pointer[Collection]
	lastMod  time.Time
	logger   *slog.Logger
}

// NewWatcher loads the collection at path and returns a watcher holding it
// as the initial snapshot.
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	col, err := LoadCSV(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     path,
		interval: 30 * time.Second,
		logger:   logger,
	}
	w.current.Store(col)
	return w, nil
}

// SetPollInterval overrides the backup polling interval. Must be called
// before Watch.
func (w *Watcher) SetPollInterval(d time.Duration) {
	if d > 0 {
		w.interval = d
	}
}

// Snapshot returns the current immutable Collection.
func (w *Watcher) Snapshot() *Collection {
	return w.current.Load()
}

// Watch blocks until ctx is done, reloading the collection whenever the
// export file is written. A backup ticker covers missed file events. A
// failed reload keeps the previous snapshot.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch collection file: %w", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.reload()
			}
		case err := <-watcher.Errors:
			w.logger.Warn("collection watcher error", "error", err)
		case <-ticker.C:
			// Backup polling in case file events are missed.
			if info, err := os.Stat(w.path); err == nil && info.ModTime().After(w.lastMod) {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	if info, err := os.Stat(w.path); err == nil {
		w.lastMod = info.ModTime()
	}
	col, err := LoadCSV(w.path)
	if err != nil {
		w.logger.Warn("collection reload failed, keeping previous snapshot", "path", w.path, "error", err)
		return
	}
	w.current.Store(col)
	w.logger.Debug("collection reloaded", "path", w.path, "unique_cards", col.UniqueCards())
}
