package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName becomes the service.name resource attribute.
	ServiceName string

	// AppEnv becomes the deployment.environment resource attribute.
	AppEnv string

	// EnableExport sends spans to an OTLP/HTTP collector configured through
	// the standard OTEL_EXPORTER_OTLP_* variables. Without it spans are
	// created for context propagation and log correlation only.
	EnableExport bool

	// SampleRatio is the fraction of root spans sampled, in (0, 1].
	// Zero means always sample.
	SampleRatio float64
}
