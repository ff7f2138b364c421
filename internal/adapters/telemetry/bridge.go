package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge forwards task spans to a Renderer so that every scheduled node
// shows up as a start line and a completion line.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a Bridge feeding renderer. A nil renderer discards spans.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart reports the span as a started task.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	outer, _ := b.spanID(trace.SpanFromContext(parent).SpanContext())
	b.renderer.OnTaskStart(id, outer, s.Name(), s.StartTime())
}

// OnEnd reports the span as a finished task, failed when its status is Error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	id, ok := b.spanID(s.SpanContext())
	if !ok {
		return
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), statusError(s.Status()))
}

// ForceFlush is a no-op; rendering happens synchronously.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown is a no-op.
func (b *Bridge) Shutdown(context.Context) error { return nil }

func (b *Bridge) spanID(sc trace.SpanContext) (string, bool) {
	if b.renderer == nil || !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func statusError(st sdktrace.Status) error {
	if st.Code != codes.Error {
		return nil
	}
	if st.Description == "" {
		return errors.New("task failed")
	}
	return errors.New(st.Description)
}
