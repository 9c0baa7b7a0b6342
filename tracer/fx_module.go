package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/aalemi-dev/airflow-relay/logger"
)

// FXModule provides *TracerClient and Tracer from a Config and flushes
// spans on shutdown.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		fx.Annotate(
			func(t *TracerClient) Tracer { return t },
			fx.As(new(Tracer)),
		),
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the provider down when the app stops.
func RegisterTracerLifecycle(lc fx.Lifecycle, client *TracerClient, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer", nil)
			return client.Shutdown(ctx)
		},
	})
}
