package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs" //nolint:depguard // Wired in engine layer
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline runner Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Runner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.SourceNodeID},
		Run: func(ctx context.Context) (*Runner, error) {
			source, err := graft.Dep[ports.FileSource](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(source), nil
		},
	})
}
