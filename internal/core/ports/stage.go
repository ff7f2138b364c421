package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Stage is one transform of a pipeline. It receives the files produced by the
// previous stage and returns the files for the next one.
//
//go:generate mockgen -source=stage.go -destination=mocks/mock_stage.go -package=mocks
type Stage interface {
	// Name identifies the stage in errors and logs.
	Name() string
	// Transform processes files. Returning an error aborts the pipeline.
	Transform(ctx context.Context, files domain.FileSet) (domain.FileSet, error)
}
