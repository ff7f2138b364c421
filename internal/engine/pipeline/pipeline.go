// Package pipeline streams matched source files through ordered stages.
package pipeline

import (
	"context"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Pipeline is the body of one task invocation: source patterns and the stages
// their files flow through. It is built fresh for every invocation.
type Pipeline struct {
	name    string
	sources []string
	stages  []ports.Stage
}

// From starts a pipeline reading the files matched by sources.
// A pipeline without sources starts with an empty file set.
func From(name string, sources ...string) *Pipeline {
	return &Pipeline{
		name:    name,
		sources: slices.Clone(sources),
	}
}

// Pipe appends stages.
func (p *Pipeline) Pipe(stages ...ports.Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// PipeIf appends stages only when cond holds. The decision is taken once,
// while the pipeline is built.
func (p *Pipeline) PipeIf(cond bool, stages ...ports.Stage) *Pipeline {
	if !cond {
		return p
	}
	return p.Pipe(stages...)
}

// Name returns the pipeline name.
func (p *Pipeline) Name() string {
	return p.name
}

// Sources returns the source patterns.
func (p *Pipeline) Sources() []string {
	return slices.Clone(p.sources)
}

// Stages returns the stage names in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Runner executes pipelines.
type Runner struct {
	source ports.FileSource
}

// NewRunner creates a runner resolving sources through source.
func NewRunner(source ports.FileSource) *Runner {
	return &Runner{source: source}
}

// Run resolves sources and passes the files through stages in order.
// The first failing stage aborts the run; its error names the stage.
func (r *Runner) Run(ctx context.Context, sources []string, stages []ports.Stage) error {
	return r.run(ctx, "", sources, stages)
}

// RunPipeline runs p.
func (r *Runner) RunPipeline(ctx context.Context, p *Pipeline) error {
	return r.run(ctx, p.name, p.sources, p.stages)
}

// Task wraps a pipeline factory into a task. build is called on every
// invocation with the environment of that invocation.
func (r *Runner) Task(name string, build func(env domain.Environment) *Pipeline) *domain.Task {
	return domain.NewTask(name, func(ctx context.Context, env domain.Environment) error {
		return r.RunPipeline(ctx, build(env))
	})
}

func (r *Runner) run(ctx context.Context, name string, sources []string, stages []ports.Stage) error {
	var files domain.FileSet
	if len(sources) > 0 {
		resolved, err := r.source.Resolve(ctx, sources)
		if err != nil {
			return withPipeline(zerr.Wrap(err, domain.ErrSourceResolutionFailed.Error()), name)
		}
		files = resolved
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := stage.Transform(ctx, files)
		if err != nil {
			stageErr := zerr.With(zerr.Wrap(err, domain.ErrStageFailed.Error()), domain.StageKey, stage.Name())
			return withPipeline(stageErr, name)
		}
		files = out
	}

	return nil
}

func withPipeline(err error, name string) error {
	if name == "" {
		return err
	}
	return zerr.With(err, domain.PipelineKey, name)
}

// StageFunc adapts a function to a named stage.
func StageFunc(name string, fn func(ctx context.Context, files domain.FileSet) (domain.FileSet, error)) ports.Stage {
	return &funcStage{name: name, fn: fn}
}

type funcStage struct {
	name string
	fn   func(ctx context.Context, files domain.FileSet) (domain.FileSet, error)
}

func (s *funcStage) Name() string {
	return s.name
}

func (s *funcStage) Transform(ctx context.Context, files domain.FileSet) (domain.FileSet, error) {
	return s.fn(ctx, files)
}
