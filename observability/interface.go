package observability

import "time"

// Observer receives one event per completed infrastructure operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a completed operation.
type OperationContext struct {
	// Component is the reporting package: "kafka", "schema_registry",
	// "emitter" or "http".
	Component string

	// Operation is what was done, e.g. "enqueue", "delivery", "flush",
	// "register_schema", "publish".
	Operation string

	// Resource is the primary target, usually a topic or registry subject.
	Resource string

	// SubResource is optional secondary context such as a partition
	// or an encoding mode.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is the payload size in bytes, or a message count for flushes.
	Size int64

	Metadata map[string]interface{}
}

// Succeeded reports whether the operation finished without error.
func (c OperationContext) Succeeded() bool {
	return c.Error == nil
}
