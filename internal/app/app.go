// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/kiln/internal/adapters/stages" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/recipes"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Scheduler executes task graph nodes.
type Scheduler interface {
	Execute(ctx context.Context, node *domain.Node, env domain.Environment) error
}

// EnvironmentResolver resolves the build environment from explicit flags.
type EnvironmentResolver interface {
	Resolve(flags map[string]string) (domain.Environment, error)
}

// Server is the live reload server.
type Server interface {
	ports.Reloader
	Start(ctx context.Context, env domain.Environment, baseDir string) error
}

// Notifier shows desktop notifications and can wait for pending ones.
type Notifier interface {
	ports.Notifier
	Wait()
}

// WatchEngine re-runs subscriptions on file changes.
type WatchEngine interface {
	SetDebounce(d time.Duration)
	Subscribe(sub domain.Subscription) error
	Start(ctx context.Context, root string, env domain.Environment) error
}

// Formatter switches an output between pretty and JSON lines.
type Formatter interface {
	SetJSON(enable bool)
}

// Deps are the collaborators of the App.
type Deps struct {
	ConfigLoader ports.ConfigLoader
	Settings     ports.SettingsLoader
	Resolver     EnvironmentResolver
	Runner       *pipeline.Runner
	Scheduler    Scheduler
	Executor     ports.Executor
	Notifier     Notifier
	Server       Server
	Engine       WatchEngine
	Logger       ports.Logger
	// Output receives tool diagnostics. Nil means os.Stderr.
	Output io.Writer
	// Formatters follow the log format selected by SetJSON.
	Formatters []Formatter
}

// App represents the main application logic.
type App struct {
	deps Deps
}

// New creates a new App instance.
func New(deps Deps) *App {
	if deps.Output == nil {
		deps.Output = os.Stderr
	}
	return &App{deps: deps}
}

// Options are the invocation settings shared by all commands.
type Options struct {
	// Cwd is where the project configuration search starts. Empty means the working directory.
	Cwd string
	// Flags are the environment flags given explicitly on the command line.
	Flags map[string]string
}

// SetJSON switches logs and task progress to JSON lines.
func (a *App) SetJSON(enable bool) {
	for _, f := range a.deps.Formatters {
		f.SetJSON(enable)
	}
}

type session struct {
	project *domain.Project
	env     domain.Environment
	recipes *recipes.Recipes
}

func (a *App) load(opts Options) (*session, error) {
	cwd := opts.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, "failed to get working directory")
		}
		cwd = wd
	}

	project, err := a.deps.ConfigLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	env, err := a.deps.Resolver.Resolve(opts.Flags)
	if err != nil {
		return nil, err
	}

	settings, err := a.deps.Settings.LoadSettings(project)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}

	r := recipes.New(recipes.Deps{
		Project:  project,
		Runner:   a.deps.Runner,
		Tools:    stages.NewToolbox(a.deps.Executor, a.deps.Logger, project, a.deps.Output),
		Settings: settings,
		Notifier: a.deps.Notifier,
		Reloader: a.deps.Server,
		Logger:   a.deps.Logger,
	})

	return &session{project: project, env: env, recipes: r}, nil
}

// Build runs the default graph.
func (a *App) Build(ctx context.Context, opts Options) error {
	return a.Run(ctx, []string{recipes.GraphDefault}, opts)
}

// Run executes the named graphs concurrently. A failure is logged and
// returned joined with domain.ErrBuildExecutionFailed.
func (a *App) Run(ctx context.Context, targetNames []string, opts Options) error {
	if len(targetNames) == 0 {
		return domain.ErrNoTargetsSpecified
	}

	s, err := a.load(opts)
	if err != nil {
		return err
	}

	graph, err := s.recipes.Graph()
	if err != nil {
		return err
	}

	nodes := make([]*domain.Node, 0, len(targetNames))
	for _, name := range targetNames {
		node, err := graph.Node(name)
		if err != nil {
			return err
		}
		nodes = append(nodes, node)
	}

	root := nodes[0]
	if len(nodes) > 1 {
		root = domain.NewParallel(nodes...)
	}

	a.deps.Logger.Info(fmt.Sprintf("%s build of %s", s.env.Mode(), s.project.Root))

	err = a.deps.Scheduler.Execute(ctx, root, s.env)
	a.deps.Notifier.Wait()
	if err != nil {
		a.deps.Logger.Error(err)
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// List writes the exported graph names to w, one per line.
func (a *App) List(w io.Writer, opts Options) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	graph, err := s.recipes.Graph()
	if err != nil {
		return err
	}

	for _, name := range graph.Names() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return zerr.Wrap(err, "failed to write task list")
		}
	}
	return nil
}

// Serve runs the default build, the live reload server and the watch
// subscriptions until ctx is canceled. Task failures are logged and never
// stop it; only the server or the watcher failing does.
func (a *App) Serve(ctx context.Context, opts Options) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	a.deps.Engine.SetDebounce(s.project.Debounce)
	for _, sub := range s.recipes.Subscriptions() {
		if err := a.deps.Engine.Subscribe(sub); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.deps.Server.Start(ctx, s.env, s.project.Path(s.project.ServeDir))
	})

	g.Go(func() error {
		return a.deps.Engine.Start(ctx, s.project.Root, s.env)
	})

	g.Go(func() error {
		if err := a.deps.Scheduler.Execute(ctx, s.recipes.Build(), s.env); err != nil && ctx.Err() == nil {
			a.deps.Logger.Error(err)
		}
		return nil
	})

	err = g.Wait()
	a.deps.Notifier.Wait()
	return err
}
