package kafka

import (
	"time"

	"github.com/aalemi-dev/airflow-relay/observability"
)

const component = "kafka"

// observeOperation reports one producer step. Failed steps carry the
// translated error's class so dashboards can split broker outages from
// rejected messages.
func (k *KafkaClient) observeOperation(operation, topic, partition string, duration time.Duration, err error, size int64) {
	if k.observer == nil {
		return
	}

	op := observability.OperationContext{
		Component:   component,
		Operation:   operation,
		Resource:    topic,
		SubResource: partition,
		Duration:    duration,
		Error:       err,
		Size:        size,
	}
	if err != nil {
		op.Metadata = map[string]interface{}{
			"retryable": k.IsRetryableError(err),
			"permanent": k.IsPermanentError(err),
		}
	}
	k.observer.ObserveOperation(op)
}
