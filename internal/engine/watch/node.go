package watch

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"  //nolint:depguard // Wired in engine layer
	"go.trai.ch/kiln/internal/adapters/watcher" //nolint:depguard // Wired in engine layer
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/scheduler"
)

// NodeID is the unique identifier for the watch engine Graft node.
const NodeID graft.ID = "engine.watch"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{watcher.NodeID, scheduler.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			sched, err := graft.Dep[*scheduler.Scheduler](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(w, sched, log), nil
		},
	})
}
