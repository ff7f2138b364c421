package watcher

import "go.trai.ch/kiln/internal/core/ports"

// Changed exposes the fingerprint filter for tests.
func (w *Watcher) Changed(event ports.WatchEvent) bool {
	return w.changed(event)
}
