package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
	"vendor":       true,
}

// WalkDirs yields root and every directory below it, skipping VCS and
// dependency folders. Unreadable directories are skipped.
func WalkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Skip problematic directories
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && SkipDir(d.Name()) {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// SkipDir reports whether a directory with the given name is excluded from walks.
func SkipDir(name string) bool {
	return skippedDirs[name]
}
