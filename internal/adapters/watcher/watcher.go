// Package watcher implements recursive file system watching on fsnotify.
package watcher

import (
	"context"
	"iter"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify. Write events that leave a
// file's content fingerprint unchanged are dropped.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	events    chan ports.WatchEvent

	mu           sync.Mutex
	fingerprints map[string]uint64
}

// NewWatcher creates a new file system watcher.
func NewWatcher(logger ports.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	return &Watcher{
		fsWatcher:    watcher,
		logger:       logger,
		events:       make(chan ports.WatchEvent, eventChannelBuffer),
		fingerprints: make(map[string]uint64),
	}, nil
}

// Start begins watching the given root directory recursively.
func (w *Watcher) Start(ctx context.Context, root string) error {
	for dir := range fs.WalkDirs(root) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "path", dir)
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok || !w.changed(watchEvent) {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.watchNewDir(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: file system error: " + err.Error())
		}
	}
}

// watchNewDir adds a created directory and its subdirectories.
func (w *Watcher) watchNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || fs.SkipDir(info.Name()) {
		return
	}
	for dir := range fs.WalkDirs(path) {
		_ = w.fsWatcher.Add(dir)
	}
}

// changed reports whether event should be delivered and records the new
// content fingerprint of written files.
func (w *Watcher) changed(event ports.WatchEvent) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch event.Operation {
	case ports.OpRemove, ports.OpRename:
		delete(w.fingerprints, event.Path)
		return true
	case ports.OpCreate, ports.OpWrite:
		sum, err := fs.FileFingerprint(event.Path)
		if err != nil {
			// Directories and files that vanished again.
			return true
		}
		prev, seen := w.fingerprints[event.Path]
		w.fingerprints[event.Path] = sum
		return event.Operation == ports.OpCreate || !seen || prev != sum
	default:
		return true
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpRename}, true
	default:
		return ports.WatchEvent{}, false
	}
}
