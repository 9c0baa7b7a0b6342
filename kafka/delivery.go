package kafka

import (
	"context"
)

// LogDeliveryObserver writes every delivery outcome to a Logger:
// acknowledgments at info, failures at error.
type LogDeliveryObserver struct {
	logger Logger
}

// NewLogDeliveryObserver returns a DeliveryObserver backed by logger.
func NewLogDeliveryObserver(logger Logger) *LogDeliveryObserver {
	return &LogDeliveryObserver{logger: logger}
}

// Delivered implements DeliveryObserver.
func (o *LogDeliveryObserver) Delivered(topic string, partition int, offset int64) {
	o.logger.InfoWithContext(context.Background(), "message delivered", nil, map[string]interface{}{
		"topic":     topic,
		"partition": partition,
		"offset":    offset,
	})
}

// Failed implements DeliveryObserver.
func (o *LogDeliveryObserver) Failed(topic string, err error) {
	o.logger.ErrorWithContext(context.Background(), "message delivery failed", err, map[string]interface{}{
		"topic":     topic,
		"retryable": isRetryable(err),
		"auth":      isAuthentication(err),
	})
}
