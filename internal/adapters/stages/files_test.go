package stages_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/stages"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestConcat(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)
	input := domain.FileSet{
		{Path: "/p/js/modernizr.js", Base: "/p/js", Contents: []byte("m()"), ModTime: newer},
		{Path: "/p/js/scripts.min.js", Base: "/p/js", Contents: []byte("s()"), ModTime: older},
	}

	out, err := stages.Concat("scripts.min.js").Transform(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "/p/js/scripts.min.js", out[0].Path)
	assert.Equal(t, "m()\ns()", string(out[0].Contents))
	assert.Equal(t, newer, out[0].ModTime)
}

func TestConcat_Empty(t *testing.T) {
	out, err := stages.Concat("style.css").Transform(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRename(t *testing.T) {
	input := domain.FileSet{{Path: "/p/languages/de_DE.po", Base: "/p/languages"}}

	out, err := stages.Rename(".mo").Transform(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "/p/languages/de_DE.mo", out[0].Path)
	assert.Equal(t, "/p/languages/de_DE.po", input[0].Path)
}

func TestDest(t *testing.T) {
	root := t.TempDir()
	dest := filepath.Join(root, "out")
	input := domain.FileSet{
		{Path: filepath.Join(root, "src", "style.css"), Base: filepath.Join(root, "src"), Contents: []byte("body{}")},
		{Path: filepath.Join(root, "src", "nested", "a.css"), Base: filepath.Join(root, "src"), Contents: []byte("a{}")},
	}

	out, err := stages.Dest(dest).Transform(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, filepath.Join(dest, "style.css"), out[0].Path)
	assert.Equal(t, dest, out[0].Base)

	got, err := os.ReadFile(filepath.Join(dest, "nested", "a.css"))
	require.NoError(t, err)
	assert.Equal(t, "a{}", string(got))
}

func TestDest_SkipsUnchanged(t *testing.T) {
	dest := t.TempDir()
	target := filepath.Join(dest, "style.css")
	require.NoError(t, os.WriteFile(target, []byte("body{}"), 0o600))

	stamp := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(target, stamp, stamp))

	input := domain.FileSet{{Path: "/src/style.css", Base: "/src", Contents: []byte("body{}")}}
	_, err := stages.Dest(dest).Transform(context.Background(), input)
	require.NoError(t, err)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp), "unchanged file must not be rewritten")

	input[0].Contents = []byte("body{color:red}")
	_, err = stages.Dest(dest).Transform(context.Background(), input)
	require.NoError(t, err)

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "body{color:red}", string(got))
}

func TestExisting(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "slick.min.js")
	require.NoError(t, os.WriteFile(present, nil, 0o600))
	absent := filepath.Join(dir, "missing.js")

	existing, missing := stages.Existing([]string{present, absent})
	assert.Equal(t, []string{present}, existing)
	assert.Equal(t, []string{absent}, missing)
}
