package observability

import (
	"sync"

	"github.com/aalemi-dev/airflow-relay/logger"
)

// NoOpObserver discards every event.
type NoOpObserver struct{}

// ObserveOperation does nothing.
func (n *NoOpObserver) ObserveOperation(OperationContext) {}

// NewNoOpObserver returns an Observer that discards every event.
func NewNoOpObserver() Observer {
	return &NoOpObserver{}
}

// OrNoOp returns o, or a NoOpObserver when o is nil.
func OrNoOp(o Observer) Observer {
	if o == nil {
		return NewNoOpObserver()
	}
	return o
}

type multi []Observer

func (m multi) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		o.ObserveOperation(ctx)
	}
}

// Multi fans each event out to every non-nil observer, in order.
func Multi(observers ...Observer) Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// LogObserver writes failed operations at error level and, when Verbose is
// set, successful ones at debug level.
type LogObserver struct {
	Logger  logger.Logger
	Verbose bool
}

// ObserveOperation implements Observer.
func (l *LogObserver) ObserveOperation(ctx OperationContext) {
	fields := map[string]interface{}{
		"component":   ctx.Component,
		"operation":   ctx.Operation,
		"resource":    ctx.Resource,
		"duration_ms": ctx.Duration.Milliseconds(),
	}
	if ctx.SubResource != "" {
		fields["sub_resource"] = ctx.SubResource
	}
	if ctx.Error != nil {
		l.Logger.Error("operation failed", ctx.Error, fields, ctx.Metadata)
		return
	}
	if l.Verbose {
		l.Logger.Debug("operation completed", nil, fields, ctx.Metadata)
	}
}

// Recorder keeps every event in memory. Tests use it to assert on what a
// component reported.
type Recorder struct {
	mu     sync.Mutex
	events []OperationContext
}

// ObserveOperation implements Observer.
func (r *Recorder) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ctx)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []OperationContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OperationContext(nil), r.events...)
}

// Find returns the recorded events matching component and operation.
func (r *Recorder) Find(component, operation string) []OperationContext {
	var out []OperationContext
	for _, e := range r.Events() {
		if e.Component == component && e.Operation == operation {
			out = append(out, e)
		}
	}
	return out
}
