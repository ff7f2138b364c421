// Package watch re-executes task graphs when the files they subscribe to change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultDebounce is the debounce window of subscriptions without their own.
const DefaultDebounce = 100 * time.Millisecond

// SubscriptionKey is the error metadata key naming the failed subscription.
const SubscriptionKey = "subscription"

// NodeExecutor runs a task graph node.
type NodeExecutor interface {
	Execute(ctx context.Context, node *domain.Node, env domain.Environment) error
}

// Engine dispatches file changes to subscriptions. Every subscription has
// its own debouncer and runs at most one execution at a time; a change
// arriving during a run queues exactly one follow-up run.
type Engine struct {
	watcher  ports.Watcher
	executor NodeExecutor
	logger   ports.Logger

	mu       sync.Mutex
	debounce time.Duration
	subs     []domain.Subscription
}

// NewEngine creates a new Engine.
func NewEngine(watcher ports.Watcher, executor NodeExecutor, logger ports.Logger) *Engine {
	return &Engine{
		watcher:  watcher,
		executor: executor,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// SetDebounce sets the window used by subscriptions without their own.
func (e *Engine) SetDebounce(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.debounce = d
	}
}

// Subscribe registers sub. It must be called before Start.
func (e *Engine) Subscribe(sub domain.Subscription) error {
	if len(sub.Patterns) == 0 {
		return zerr.With(domain.ErrEmptySubscription, SubscriptionKey, sub.Name)
	}
	for _, p := range sub.Patterns {
		if !doublestar.ValidatePattern(normalize(p)) {
			return zerr.With(zerr.With(domain.ErrInvalidPattern, "pattern", p), SubscriptionKey, sub.Name)
		}
	}
	if err := sub.Node.Validate(); err != nil {
		return zerr.With(err, SubscriptionKey, sub.Name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, sub)
	return nil
}

// Start watches root and runs until ctx is cancelled. Pending debounced
// changes are dropped on shutdown; in-flight executions are awaited.
func (e *Engine) Start(ctx context.Context, root string, env domain.Environment) error {
	e.mu.Lock()
	subs := make([]*subscription, len(e.subs))
	for i, s := range e.subs {
		window := s.Debounce
		if window <= 0 {
			window = e.debounce
		}
		subs[i] = newSubscription(s, window)
	}
	e.mu.Unlock()

	if err := e.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
	}
	defer func() { _ = e.watcher.Stop() }()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for _, s := range subs {
		wg.Go(func() { e.run(ctx, stop, s, env) })
	}

	for event := range e.watcher.Events() {
		if ctx.Err() != nil {
			break
		}
		rel, ok := relative(root, event.Path)
		if !ok {
			continue
		}
		for _, s := range subs {
			if s.matches(rel) {
				s.debouncer.Add(rel)
			}
		}
	}

	for _, s := range subs {
		s.debouncer.Stop()
	}
	close(stop)
	wg.Wait()

	return nil
}

// run executes the subscription's node once per trigger until ctx ends or
// stop is closed.
func (e *Engine) run(ctx context.Context, stop <-chan struct{}, s *subscription, env domain.Environment) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case paths := <-s.trigger:
			if ctx.Err() != nil {
				return
			}
			e.logger.Info(fmt.Sprintf("%s: %s changed", s.name, describe(paths)))
			if err := e.executor.Execute(ctx, s.node, env); err != nil {
				if ctx.Err() != nil {
					return
				}
				e.logger.Error(zerr.With(err, SubscriptionKey, s.name))
			}
		}
	}
}

type subscription struct {
	name      string
	node      *domain.Node
	includes  []string
	excludes  []string
	debouncer *Debouncer
	// trigger holds at most one queued run.
	trigger chan []string
}

func newSubscription(sub domain.Subscription, window time.Duration) *subscription {
	s := &subscription{
		name:    sub.Name,
		node:    sub.Node,
		trigger: make(chan []string, 1),
	}
	for _, p := range sub.Patterns {
		if excl, ok := strings.CutPrefix(p, "!"); ok {
			s.excludes = append(s.excludes, normalize(excl))
			continue
		}
		s.includes = append(s.includes, normalize(p))
	}
	s.debouncer = NewDebouncer(window, s.enqueue)
	return s
}

// enqueue queues a run. A run that is already queued absorbs paths instead.
func (s *subscription) enqueue(paths []string) {
	for {
		select {
		case s.trigger <- paths:
			return
		default:
		}
		select {
		case queued := <-s.trigger:
			paths = slices.Compact(slices.Sorted(slices.Values(append(queued, paths...))))
		default:
		}
	}
}

func (s *subscription) matches(rel string) bool {
	if !anyMatch(s.includes, rel) {
		return false
	}
	return !anyMatch(s.excludes, rel)
}

func anyMatch(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func normalize(pattern string) string {
	pattern = strings.TrimPrefix(pattern, "!")
	return strings.TrimPrefix(filepath.ToSlash(pattern), "./")
}

func relative(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func describe(paths []string) string {
	switch len(paths) {
	case 0:
		return "files"
	case 1:
		return paths[0]
	default:
		return fmt.Sprintf("%s and %d more", paths[0], len(paths)-1)
	}
}
