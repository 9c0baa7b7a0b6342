package emitter

import (
	"fmt"
	"time"
)

// FlushTimeoutError means the flush bound passed with messages still
// outstanding. Delivery is unknown, not failed.
type FlushTimeoutError struct {
	Topic   string
	Pending int
	Timeout time.Duration
}

func (e *FlushTimeoutError) Error() string {
	return fmt.Sprintf("broker did not acknowledge %d message(s) on %s within %s", e.Pending, e.Topic, e.Timeout)
}

// PublishError means the producer did not admit the message.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish to %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
