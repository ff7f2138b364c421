package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// Executor runs external tool processes.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs cmd to completion. stdin may be nil.
	// A non-zero exit is returned as an error carrying the exit code.
	Execute(ctx context.Context, cmd *domain.Command, stdin io.Reader, stdout, stderr io.Writer) error
}
