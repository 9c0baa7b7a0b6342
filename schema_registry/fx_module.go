package schema_registry

import (
	"context"

	"github.com/aalemi-dev/airflow-relay/observability"
	"go.uber.org/fx"
)

// FXModule provides *Client and the Registry interface. It is only
// included when a registry URL is configured.
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(c *Client) Registry { return c },
			fx.As(new(Registry)),
		),
	),
	fx.Invoke(RegisterSchemaRegistryLifecycle),
)

// SchemaRegistryParams groups the dependencies of NewClientWithDI.
type SchemaRegistryParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI builds a Client from injected config, logger and observer.
func NewClientWithDI(params SchemaRegistryParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	return client, nil
}

// SchemaRegistryLifecycleParams groups the dependencies of
// RegisterSchemaRegistryLifecycle.
type SchemaRegistryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *Client
}

// RegisterSchemaRegistryLifecycle logs the registry endpoint on start. The
// HTTP client holds no resources that need releasing.
func RegisterSchemaRegistryLifecycle(params SchemaRegistryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Client.logInfo(ctx, "schema registry client initialized", map[string]interface{}{
				"url": params.Client.baseURL,
			})
			return nil
		},
	})
}
