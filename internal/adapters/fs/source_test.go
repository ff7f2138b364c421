package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/core/domain"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
}

func relatives(files domain.FileSet) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Relative()
	}
	return out
}

func TestSource_Resolve(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"assets/styles/main.scss":          "body{}",
		"assets/styles/partials/_a.scss":   "a{}",
		"assets/styles/vendor/skip.scss":   "x{}",
		"assets/scripts/app.js":            "1",
		"assets/scripts/nested/widget.js":  "2",
		"assets/scripts/nested/widget.map": "3",
	})

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{
			name:     "recursive glob relative to glob base",
			patterns: []string{"assets/styles/**/*.scss"},
			want:     []string{"main.scss", "partials/_a.scss", "vendor/skip.scss"},
		},
		{
			name:     "leading dot slash is trimmed",
			patterns: []string{"./assets/scripts/*.js"},
			want:     []string{"app.js"},
		},
		{
			name:     "exclusions",
			patterns: []string{"assets/styles/**/*.scss", "!assets/styles/vendor/**"},
			want:     []string{"main.scss", "partials/_a.scss"},
		},
		{
			name:     "duplicates collapse",
			patterns: []string{"assets/scripts/**/*.js", "assets/scripts/app.js"},
			want:     []string{"app.js", "nested/widget.js"},
		},
		{
			name:     "pattern order is kept",
			patterns: []string{"assets/scripts/nested/widget.js", "assets/scripts/*.js"},
			want:     []string{"widget.js", "app.js"},
		},
		{
			name:     "no match is empty",
			patterns: []string{"assets/images/*.png"},
			want:     []string{},
		},
		{
			name:     "directories are skipped",
			patterns: []string{"assets/*"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := fs.NewSource(root).Resolve(context.Background(), tt.patterns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relatives(files))
		})
	}
}

func TestSource_ResolveReadsContents(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b.txt": "hello"})

	files, err := fs.NewSource(root).Resolve(context.Background(), []string{filepath.Join(root, "a", "*.txt")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, filepath.Join(root, "a", "b.txt"), files[0].Path)
	assert.Equal(t, filepath.Join(root, "a"), files[0].Base)
	assert.Equal(t, "hello", string(files[0].Contents))
	assert.False(t, files[0].ModTime.IsZero())
}

func TestSource_InvalidPattern(t *testing.T) {
	_, err := fs.NewSource(t.TempDir()).Resolve(context.Background(), []string{"assets/[a-"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidPattern.Error())
}

func TestSource_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewSource(t.TempDir()).Resolve(ctx, []string{"*.js"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	got, err := fs.FileFingerprint(path)
	require.NoError(t, err)
	assert.Equal(t, fs.Fingerprint([]byte("hello world")), got)
	assert.NotEqual(t, fs.Fingerprint([]byte("hello world!")), got)

	_, err = fs.FileFingerprint(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestWalkDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.js":            "",
		"src/lib/b.js":        "",
		".git/config":         "",
		"node_modules/x/y.js": "",
	})

	var dirs []string
	for d := range fs.WalkDirs(root) {
		rel, err := filepath.Rel(root, d)
		require.NoError(t, err)
		dirs = append(dirs, filepath.ToSlash(rel))
	}

	assert.ElementsMatch(t, []string{".", "src", "src/lib"}, dirs)
}
