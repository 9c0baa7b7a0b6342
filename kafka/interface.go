package kafka

import (
	"context"
	"time"
)

// Publisher is the relay's producer: asynchronous admission plus a
// bounded wait for acknowledgment.
//
// This interface is implemented by the concrete *KafkaClient type.
type Publisher interface {
	// Enqueue admits msg to the producer's buffer and returns without
	// waiting for the broker. An error means the message was not admitted.
	Enqueue(ctx context.Context, msg Message) error

	// Flush blocks until every message enqueued before the call has been
	// acknowledged or failed, or until timeout elapses. It returns how many
	// of those messages were still outstanding.
	Flush(timeout time.Duration) int

	// TranslateError maps broker errors onto the package sentinels.
	TranslateError(err error) error

	// GracefulShutdown drains and closes the producer.
	GracefulShutdown()
}

// Message is one outgoing record. A nil Key lets the balancer pick the
// partition.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// DeliveryObserver receives the outcome of every admitted message from the
// producer's background completion path. Without one, the client logs
// failures itself. LogDeliveryObserver logs both outcomes.
type DeliveryObserver interface {
	Delivered(topic string, partition int, offset int64)
	Failed(topic string, err error)
}
