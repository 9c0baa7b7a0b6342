package emitter

import "time"

// DefaultFlushTimeout bounds how long Publish waits for acknowledgment.
const DefaultFlushTimeout = 10 * time.Second

// Config configures the Dispatcher.
type Config struct {
	// FlushTimeout bounds the wait for broker acknowledgment.
	// Default: DefaultFlushTimeout
	FlushTimeout time.Duration

	// PropagateTraceHeaders adds the W3C trace context of the publish span
	// to the message headers.
	PropagateTraceHeaders bool
}
