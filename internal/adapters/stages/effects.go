package stages

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// Notify shows a desktop notification and passes the files through.
func Notify(notifier ports.Notifier, title, msg string) ports.Stage {
	return pipeline.StageFunc("notify", func(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
		notifier.Notify(context.WithoutCancel(ctx), title, msg)
		return files, nil
	})
}

// Reload tells connected browsers about the files and passes them through.
// An empty set requests a full page reload.
func Reload(reloader ports.Reloader) ports.Stage {
	return pipeline.StageFunc("reload", func(_ context.Context, files domain.FileSet) (domain.FileSet, error) {
		reloader.Reload(files.Paths()...)
		return files, nil
	})
}
