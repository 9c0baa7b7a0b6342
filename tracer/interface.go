package tracer

import "context"

// Tracer starts spans and moves trace context across process boundaries.
// *TracerClient implements it.
type Tracer interface {
	// StartSpan starts a child of the span in ctx, or a root span.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// GetCarrier returns the W3C trace context of ctx as header pairs.
	GetCarrier(ctx context.Context) map[string]string

	// SetCarrierOnContext continues the trace described by carrier.
	SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context
}

// Span is an in-flight operation. End must be called exactly once.
type Span interface {
	End()
	SetAttributes(attrs map[string]interface{})
	RecordError(err error)
}
