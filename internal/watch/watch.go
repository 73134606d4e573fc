// Package watch re-runs a callback whenever a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler is called with the watched path after the file settles.
type Handler func(ctx context.Context, path string)

// Watcher watches a single file. The parent directory is watched so editors
// that save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	handle   Handler
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
}

// New starts watching path. Call Run to deliver events and Close when done.
func New(path string, debounce time.Duration, handle Handler, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		debounce: debounce,
		handle:   handle,
		logger:   logger.With(zap.String("path", abs)),
		watcher:  fw,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers debounced change notifications until ctx is cancelled or the
// watcher is closed. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	var settled <-chan time.Time // nil until a relevant event arrives

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", zap.Stringer("op", event.Op))
			settled = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case <-settled:
			settled = nil
			w.handle(ctx, w.path)
		}
	}
}

// relevant reports whether event changes the watched file's contents.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
