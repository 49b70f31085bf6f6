package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher publishes reloaded configurations whenever the config file
// changes on disk. It is the preferences change-notification stream the
// core subscribes to; the core never owns the persistence format.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	logger  *slog.Logger
	changes chan *Config
}

// NewWatcher starts watching the config file's directory (editors
// replace files atomically, so watching the file itself misses writes).
func NewWatcher(path string, logger *slog.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(path)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:    path,
		fs:      fs,
		logger:  logger,
		changes: make(chan *Config, 1),
	}, nil
}

// Changes returns the stream of reloaded configurations.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Run consumes filesystem events until the context is cancelled.
// Invalid configs are logged and skipped; the previous config stays in
// effect.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fs.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := LoadFrom(w.path)
			if err != nil {
				w.logger.Warn("config reload failed, keeping previous", "error", err)
				continue
			}
			// Drop a stale pending config so subscribers always see the
			// newest one.
			select {
			case <-w.changes:
			default:
			}
			select {
			case w.changes <- cfg:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}
