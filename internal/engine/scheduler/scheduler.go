// Package scheduler executes task graphs composed of sequences and parallel groups.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler runs task graph nodes. It holds no per-run state, so the same
// node can be executed any number of times, also concurrently.
type Scheduler struct {
	tracer ports.Tracer
}

// NewScheduler creates a new Scheduler.
func NewScheduler(tracer ports.Tracer) *Scheduler {
	return &Scheduler{tracer: tracer}
}

// Execute validates node and runs it with env.
//
// A sequence stops at the first failing child and returns its error.
// A parallel group waits for all children, never cancels siblings and
// returns every child failure joined under ErrParallelFailed.
func (s *Scheduler) Execute(ctx context.Context, node *domain.Node, env domain.Environment) error {
	if err := node.Validate(); err != nil {
		return err
	}
	return s.execute(ctx, node, env)
}

func (s *Scheduler) execute(ctx context.Context, node *domain.Node, env domain.Environment) error {
	ctx, span := s.tracer.Start(ctx, node.Name(), ports.WithKind(node.Kind().String()))
	defer span.End()

	var err error
	switch node.Kind() {
	case domain.KindLeaf:
		err = s.runLeaf(ctx, node.Task(), env)
	case domain.KindSequence:
		err = s.runSequence(ctx, node.Children(), env)
	case domain.KindParallel:
		err = s.runParallel(ctx, node.Children(), env)
	default:
		err = zerr.With(domain.ErrUnresolvedReference, "ref", node.Name())
	}

	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *Scheduler) runLeaf(ctx context.Context, task *domain.Task, env domain.Environment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.Wrap(zerr.New(fmt.Sprintf("panic: %v", r)), domain.ErrTaskFailed.Error()),
				domain.TaskKey, task.Name.String())
		}
	}()

	if err := task.Run(ctx, env); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTaskFailed.Error()), domain.TaskKey, task.Name.String())
	}
	return nil
}

func (s *Scheduler) runSequence(ctx context.Context, children []*domain.Node, env domain.Environment) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.execute(ctx, child, env); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) runParallel(ctx context.Context, children []*domain.Node, env domain.Environment) error {
	errs := make([]error, len(children))

	// A plain group: a failing branch must not cancel its siblings.
	var g errgroup.Group
	for i, child := range children {
		g.Go(func() error {
			errs[i] = s.execute(ctx, child, env)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}

	return zerr.With(zerr.Wrap(errors.Join(errs...), domain.ErrParallelFailed.Error()), "failed", failed)
}
