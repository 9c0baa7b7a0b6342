// Package observability defines the hook through which the relay's
// infrastructure packages (kafka, schema_registry, emitter)
// report completed operations.
//
// Packages accept an optional Observer and call it once per operation:
//
//	start := time.Now()
//	err := c.enqueue(ctx, msg)
//	c.observer.ObserveOperation(observability.OperationContext{
//	    Component: "kafka",
//	    Operation: "enqueue",
//	    Resource:  msg.Topic,
//	    Duration:  time.Since(start),
//	    Error:     err,
//	    Size:      int64(len(msg.Value)),
//	})
//
// The metrics package turns these events into Prometheus series, LogObserver
// writes failures to the structured log, and Multi fans one event out to
// several observers. A nil Observer is never called; packages substitute
// NoOpObserver.
package observability
