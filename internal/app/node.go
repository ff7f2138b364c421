package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/environment" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/linear"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/livereload"  //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/notify"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/shell"       //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/engine/watch"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			config.SettingsNodeID,
			environment.NodeID,
			pipeline.NodeID,
			scheduler.NodeID,
			shell.NodeID,
			notify.NodeID,
			livereload.NodeID,
			watch.NodeID,
			linear.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{AppNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

//nolint:cyclop // dependency fan-in
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}
	resolver, err := graft.Dep[*environment.Resolver](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[*pipeline.Runner](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}
	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}
	notifier, err := graft.Dep[*notify.Notifier](ctx)
	if err != nil {
		return nil, err
	}
	server, err := graft.Dep[*livereload.Server](ctx)
	if err != nil {
		return nil, err
	}
	engine, err := graft.Dep[*watch.Engine](ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := graft.Dep[ports.Renderer](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	var formatters []Formatter
	for _, c := range []any{log, renderer} {
		if f, ok := c.(Formatter); ok {
			formatters = append(formatters, f)
		}
	}

	return New(Deps{
		ConfigLoader: loader,
		Settings:     settings,
		Resolver:     resolver,
		Runner:       runner,
		Scheduler:    sched,
		Executor:     executor,
		Notifier:     notifier,
		Server:       server,
		Engine:       engine,
		Logger:       log,
		Formatters:   formatters,
	}), nil
}
