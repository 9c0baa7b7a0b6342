package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/aalemi-dev/airflow-relay/logger"
)

func newRecordingClient(t *testing.T) (*TracerClient, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewClientWithProvider(tp), rec
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(Config{ServiceName: "airflow-relay", AppEnv: "test", SampleRatio: 0.5})
	require.NoError(t, err)
	require.NoError(t, client.Shutdown(context.Background()))
}

func TestNewNoop(t *testing.T) {
	t.Parallel()
	client := NewNoop()
	ctx, span := client.StartSpan(context.Background(), "emitter.publish")
	assert.False(t, trace.SpanFromContext(ctx).IsRecording())
	span.RecordError(errors.New("ignored"))
	span.End()
	require.NoError(t, client.Shutdown(context.Background()))
}

func TestStartSpan_ParentChild(t *testing.T) {
	t.Parallel()
	client, rec := newRecordingClient(t)

	parentCtx, parent := client.StartSpan(context.Background(), "http.request")
	childCtx, child := client.StartSpan(parentCtx, "emitter.publish")
	assert.True(t, trace.SpanFromContext(childCtx).IsRecording())
	child.End()
	parent.End()

	ended := rec.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "emitter.publish", ended[0].Name())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())
}

func TestSpan_AttributesAndErrors(t *testing.T) {
	t.Parallel()
	client, rec := newRecordingClient(t)

	_, span := client.StartSpan(context.Background(), "kafka.flush")
	span.SetAttributes(map[string]interface{}{
		"topic":   "airflow-dag-run",
		"pending": 2,
		"bytes":   int64(10),
		"ratio":   0.5,
		"binary":  true,
		"other":   []string{"a"},
	})
	span.SetAttributes(nil)
	span.RecordError(nil)
	span.RecordError(errors.New("flush timed out"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Len(t, ended[0].Attributes(), 6)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "flush timed out", ended[0].Status().Description)
}

func TestCarrierRoundTrip(t *testing.T) {
	t.Parallel()
	client, _ := newRecordingClient(t)

	assert.Empty(t, client.GetCarrier(context.Background()))

	ctx, span := client.StartSpan(context.Background(), "origin")
	defer span.End()

	carrier := client.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	remote := client.SetCarrierOnContext(context.Background(), carrier)
	assert.Equal(t,
		trace.SpanContextFromContext(ctx).TraceID(),
		trace.SpanContextFromContext(remote).TraceID())
}

func TestFXModule(t *testing.T) {
	var tr Tracer
	app := fxtest.New(t,
		fx.Supply(Config{ServiceName: "airflow-relay"}),
		fx.Provide(func() logger.Logger { return logger.NewNop() }),
		FXModule,
		fx.Populate(&tr),
	)
	app.RequireStart()
	require.NotNil(t, tr)
	app.RequireStop()
}
