package domain

import (
	"io/fs"
	"path/filepath"
	"slices"
	"time"
)

// File is a single file flowing through a pipeline.
type File struct {
	// Path is the absolute location of the file.
	Path string
	// Base is the directory the source pattern was resolved against.
	Base string
	// Contents holds the file bytes.
	Contents []byte
	// Mode is the file mode of the source file.
	Mode fs.FileMode
	// ModTime is the modification time of the source file.
	ModTime time.Time
}

// Relative returns the file path relative to its base, using forward slashes.
func (f *File) Relative() string {
	rel, err := filepath.Rel(f.Base, f.Path)
	if err != nil {
		return filepath.ToSlash(filepath.Base(f.Path))
	}
	return filepath.ToSlash(rel)
}

// Name returns the base name of the file.
func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// Clone returns a deep copy of the file so stages never alias each other's contents.
func (f *File) Clone() *File {
	c := *f
	c.Contents = slices.Clone(f.Contents)
	return &c
}

// FileSet is an ordered collection of files.
type FileSet []*File

// Paths returns the absolute paths of all files in order.
func (s FileSet) Paths() []string {
	paths := make([]string, len(s))
	for i, f := range s {
		paths[i] = f.Path
	}
	return paths
}
