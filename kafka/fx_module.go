package kafka

import (
	"context"

	"github.com/aalemi-dev/airflow-relay/observability"
	"go.uber.org/fx"
)

// FXModule provides the shared *KafkaClient and the Publisher interface,
// and closes the writer on application stop.
//
// Usage:
//
//	app := fx.New(
//	    kafka.FXModule,
//	    fx.Provide(func() kafka.Config { return cfg.Kafka }),
//	)
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(k *KafkaClient) Publisher { return k },
			fx.As(new(Publisher)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create a Kafka client
type KafkaParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Delivery DeliveryObserver       `optional:"true"`
}

// NewClientWithDI creates the Kafka client from injected dependencies.
// The writer is detached from the fx start context because it outlives it.
func NewClientWithDI(params KafkaParams) (*KafkaClient, error) {
	client, err := NewClient(context.Background(), params.Config)
	if err != nil {
		return nil, err
	}

	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	if params.Delivery != nil {
		client.WithDeliveryObserver(params.Delivery)
	}

	return client, nil
}

// KafkaLifecycleParams groups the dependencies needed for Kafka lifecycle management
type KafkaLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *KafkaClient
}

// RegisterKafkaLifecycle logs the producer start and shuts it down on stop,
// which drains buffered batches before closing connections.
func RegisterKafkaLifecycle(params KafkaLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Client.logInfo(ctx, "Kafka producer started", map[string]interface{}{
				"brokers": params.Client.cfg.Brokers,
				"msk_iam": params.Client.cfg.MSK.Enabled(),
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.logInfo(ctx, "Shutting down Kafka producer", map[string]interface{}{
				"pending": params.Client.Pending(),
			})
			params.Client.GracefulShutdown()
			return nil
		},
	})
}
