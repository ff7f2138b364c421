package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/ports"
)

func TestOTelTracer_RecordsKindAndAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp, "test")

	_, span := tracer.Start(context.Background(), "<parallel>", ports.WithKind("parallel"))
	span.SetAttribute("children", 3)
	span.SetAttribute("lint", true)
	span.SetAttribute("files", []string{"a.css", "b.css"})
	span.SetAttribute("other", struct{ X int }{X: 1})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "<parallel>", ended[0].Name())

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "parallel", attrs[telemetry.KindAttribute])
	assert.Equal(t, "3", attrs["children"])
	assert.Equal(t, "true", attrs["lint"])
	assert.Equal(t, "[\"a.css\",\"b.css\"]", attrs["files"])
	assert.Equal(t, "{1}", attrs["other"])
}

func TestOTelTracer_NoKind(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp, "test")

	_, span := tracer.Start(context.Background(), "task")
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Empty(t, recorder.Ended()[0].Attributes())
}
