package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// FileSource resolves glob patterns into file sets.
//
//go:generate mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type FileSource interface {
	// Resolve returns the files matched by patterns, relative to the source root.
	// Patterns starting with "!" exclude matches. No match is not an error.
	Resolve(ctx context.Context, patterns []string) (domain.FileSet, error)
}
