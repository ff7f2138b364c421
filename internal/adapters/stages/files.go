package stages

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	kfs "go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Concat joins all files into one file called name, placed at the base of
// the first file. Contents are separated by a newline. An empty set stays
// empty.
func Concat(name string) ports.Stage {
	return pipeline.StageFunc("concat", func(_ context.Context, files domain.FileSet) (domain.FileSet, error) {
		if len(files) == 0 {
			return files, nil
		}

		parts := make([][]byte, len(files))
		for i, f := range files {
			parts[i] = f.Contents
		}

		first := files[0]
		return domain.FileSet{{
			Path:     filepath.Join(first.Base, name),
			Base:     first.Base,
			Contents: bytes.Join(parts, []byte("\n")),
			Mode:     first.Mode,
			ModTime:  latest(files),
		}}, nil
	})
}

// Rename replaces the extension of every file with ext.
func Rename(ext string) ports.Stage {
	return pipeline.StageFunc("rename", func(_ context.Context, files domain.FileSet) (domain.FileSet, error) {
		out := make(domain.FileSet, len(files))
		for i, f := range files {
			renamed := f.Clone()
			renamed.Path = strings.TrimSuffix(f.Path, filepath.Ext(f.Path)) + ext
			out[i] = renamed
		}
		return out, nil
	})
}

// Dest writes every file below dir, keeping its path relative to its base.
// Files whose contents already match the target are not rewritten. The
// returned files are rebased onto dir.
func Dest(dir string) ports.Stage {
	return pipeline.StageFunc("dest", func(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
		out := make(domain.FileSet, 0, len(files))
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			target := filepath.Join(dir, filepath.FromSlash(f.Relative()))
			if err := writeIfChanged(target, f.Contents); err != nil {
				return nil, err
			}

			written := f.Clone()
			written.Path = target
			written.Base = dir
			out = append(out, written)
		}
		return out, nil
	})
}

func writeIfChanged(path string, contents []byte) error {
	existing, err := kfs.FileFingerprint(path)
	if err == nil && existing == kfs.Fingerprint(contents) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	//nolint:gosec // Output files are world readable assets
	if err := os.WriteFile(path, contents, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}

// Existing keeps only the paths that exist and reports the missing ones.
func Existing(paths []string) (existing, missing []string) {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, p)
			continue
		}
		existing = append(existing, p)
	}
	return existing, missing
}

func latest(files domain.FileSet) time.Time {
	var t time.Time
	for _, f := range files {
		if f.ModTime.After(t) {
			t = f.ModTime
		}
	}
	return t
}
