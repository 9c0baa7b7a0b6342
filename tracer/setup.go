package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aalemi-dev/airflow-relay"

// TracerClient wraps an SDK tracer provider. Safe for concurrent use.
type TracerClient struct {
	provider   *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewClient builds the tracer provider and installs it, with the W3C trace
// context and baggage propagators, as the otel globals.
func NewClient(cfg Config) (*TracerClient, error) {
	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(cfg.AppEnv),
			attribute.String("environment", cfg.AppEnv),
		)),
	}

	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		options = append(options, sdktrace.WithSampler(
			sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
		))
	}

	if cfg.EnableExport {
		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient())
		if err != nil {
			return nil, fmt.Errorf("tracer: initialize OTLP exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
	}

	client := NewClientWithProvider(sdktrace.NewTracerProvider(options...))
	otel.SetTracerProvider(client.provider)
	otel.SetTextMapPropagator(client.propagator)
	return client, nil
}

// NewClientWithProvider wraps an existing provider without touching the
// otel globals. Tests pass a provider with a tracetest.SpanRecorder.
func NewClientWithProvider(tp *sdktrace.TracerProvider) *TracerClient {
	return &TracerClient{
		provider:   tp,
		tracer:     tp.Tracer(instrumentationName),
		propagator: propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	}
}

// NewNoop returns a client whose spans are never sampled or exported.
// Components fall back to it when no tracer is injected.
func NewNoop() *TracerClient {
	return NewClientWithProvider(sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample())))
}

// Shutdown flushes pending spans and stops the provider.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
