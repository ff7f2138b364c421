// Package fs resolves glob patterns into in-memory file sets.
package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSource = (*Source)(nil)

// Source implements ports.FileSource using doublestar globbing.
type Source struct {
	root string
}

// NewSource creates a Source resolving relative patterns against root.
// An empty root means the working directory at resolve time.
func NewSource(root string) *Source {
	return &Source{root: root}
}

// Resolve expands patterns into files in pattern order, each pattern's
// matches sorted by path. A file matched twice keeps its first position.
// Patterns starting with "!" remove matches. Directories are never returned.
func (s *Source) Resolve(ctx context.Context, patterns []string) (domain.FileSet, error) {
	root, err := s.resolveRoot()
	if err != nil {
		return nil, err
	}

	var includes, excludes []string
	for _, p := range patterns {
		if excl, ok := strings.CutPrefix(p, "!"); ok {
			excludes = append(excludes, s.absolute(root, excl))
			continue
		}
		includes = append(includes, s.absolute(root, p))
	}

	for _, p := range append(slices.Clone(includes), excludes...) {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return nil, zerr.With(domain.ErrInvalidPattern, "pattern", p)
		}
	}

	seen := make(map[string]struct{})
	var files domain.FileSet
	for _, pattern := range includes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = filepath.FromSlash(base)

		matches, err := doublestar.Glob(os.DirFS(base), rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob pattern"), "pattern", pattern)
		}
		slices.Sort(matches)

		for _, m := range matches {
			path := filepath.Join(base, filepath.FromSlash(m))
			if _, dup := seen[path]; dup || excluded(path, excludes) {
				continue
			}
			seen[path] = struct{}{}

			file, err := readFile(path, base)
			if err != nil {
				return nil, err
			}
			files = append(files, file)
		}
	}

	return files, nil
}

func (s *Source) resolveRoot() (string, error) {
	if s.root != "" {
		return s.root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(err, "failed to get working directory")
	}
	return wd, nil
}

func (s *Source) absolute(root, pattern string) string {
	pattern = strings.TrimPrefix(pattern, "./")
	if filepath.IsAbs(pattern) {
		return filepath.Clean(pattern)
	}
	return filepath.Join(root, pattern)
}

func excluded(path string, excludes []string) bool {
	slashed := filepath.ToSlash(path)
	for _, excl := range excludes {
		if ok, _ := doublestar.Match(filepath.ToSlash(excl), slashed); ok {
			return true
		}
	}
	return false
}

func readFile(path, base string) (*domain.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	contents, err := os.ReadFile(path) //nolint:gosec // Path comes from project globs
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return &domain.File{
		Path:     path,
		Base:     base,
		Contents: contents,
		Mode:     info.Mode() & fs.ModePerm,
		ModTime:  info.ModTime(),
	}, nil
}
