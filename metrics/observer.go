package metrics

import (
	"github.com/aalemi-dev/airflow-relay/observability"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// OperationObserver turns observability events into application series:
//
//   - operations_total{component,operation,resource,status}
//   - operation_duration_seconds{component,operation}
//   - payload_bytes{component,resource} for enqueue events
//   - flush_pending_messages{resource} holding the last flush's pending count
type OperationObserver struct {
	operations Counter
	durations  Histogram
	payload    Histogram
	pending    Gauge
}

// NewOperationObserver registers the operation series on m.
func NewOperationObserver(m MetricsCollector) *OperationObserver {
	return &OperationObserver{
		operations: m.CreateCounter("operations_total",
			"Completed relay operations by component and outcome.",
			[]string{"component", "operation", "resource", "status"}),
		durations: m.CreateHistogram("operation_duration_seconds",
			"Relay operation latency.",
			[]string{"component", "operation"},
			[]float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15}),
		payload: m.CreateHistogram("payload_bytes",
			"Encoded message size handed to the broker.",
			[]string{"component", "resource"},
			[]float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576}),
		pending: m.CreateGauge("flush_pending_messages",
			"Messages still undelivered when the last flush returned.",
			[]string{"resource"}),
	}
}

// ObserveOperation implements observability.Observer.
func (o *OperationObserver) ObserveOperation(ctx observability.OperationContext) {
	status := statusSuccess
	if ctx.Error != nil {
		status = statusError
	}
	o.operations.WithLabelValues(ctx.Component, ctx.Operation, ctx.Resource, status).Inc()
	o.durations.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	switch ctx.Operation {
	case "enqueue":
		if ctx.Error == nil {
			o.payload.WithLabelValues(ctx.Component, ctx.Resource).Observe(float64(ctx.Size))
		}
	case "flush":
		o.pending.WithLabelValues(ctx.Resource).Set(float64(ctx.Size))
	}
}
