package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/kiln/internal/adapters/linear"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter Graft node.
const NodeID graft.ID = "adapter.telemetry"

// InstrumentationName names the tracer used for task spans.
const InstrumentationName = "kiln"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{linear.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			renderer, err := graft.Dep[ports.Renderer](ctx)
			if err != nil {
				return nil, err
			}

			tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewBridge(renderer)))
			otel.SetTracerProvider(tp)

			return NewOTelTracer(otel.GetTracerProvider(), InstrumentationName), nil
		},
	})
}
