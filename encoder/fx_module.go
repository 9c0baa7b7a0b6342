package encoder

import (
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
	"go.uber.org/fx"
)

// FXModule provides the process-wide Encoder.
var FXModule = fx.Module("encoder",
	fx.Provide(NewWithDI),
)

// EncoderParams groups the dependencies of NewWithDI. Registry is absent
// when no registry URL is configured.
type EncoderParams struct {
	fx.In

	Topics   *record.TopicTable
	Registry schema_registry.Registry `optional:"true"`
}

// NewWithDI builds the Encoder selected by the presence of a registry.
func NewWithDI(params EncoderParams) (Encoder, error) {
	return New(params.Registry, params.Topics)
}
