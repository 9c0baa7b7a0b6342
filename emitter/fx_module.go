package emitter

import (
	"github.com/aalemi-dev/airflow-relay/encoder"
	"github.com/aalemi-dev/airflow-relay/kafka"
	"github.com/aalemi-dev/airflow-relay/observability"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"go.uber.org/fx"
)

// FXModule provides the Dispatcher.
var FXModule = fx.Module("emitter",
	fx.Provide(NewWithDI),
)

// DispatcherParams groups the dependencies of NewWithDI.
type DispatcherParams struct {
	fx.In

	Config    Config
	Topics    *record.TopicTable
	Encoder   encoder.Encoder
	Publisher kafka.Publisher
	Tracer    tracer.Tracer          `optional:"true"`
	Observer  observability.Observer `optional:"true"`
	Logger    Logger                 `optional:"true"`
}

// NewWithDI builds a Dispatcher from injected collaborators.
func NewWithDI(params DispatcherParams) *Dispatcher {
	return New(params.Config, params.Topics, params.Encoder, params.Publisher).
		WithTracer(params.Tracer).
		WithObserver(params.Observer).
		WithLogger(params.Logger)
}
