package encoder

import (
	"context"
	"encoding/json"

	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
)

// Text writes records as UTF-8 JSON objects in schema order.
type Text struct{}

// NewText returns the text encoder.
func NewText() *Text {
	return &Text{}
}

// Mode implements Encoder.
func (*Text) Mode() Mode { return TextMode }

// Encode implements Encoder. Topic and version only label errors.
func (*Text) Encode(_ context.Context, topic string, _ record.Version, value, key *record.Record) (Encoded, error) {
	var out Encoded

	v, err := json.Marshal(value)
	if err != nil {
		return Encoded{}, &SerializationError{Topic: topic, Role: schema_registry.RoleValue, Err: err}
	}
	out.Value = v

	if key != nil {
		k, err := json.Marshal(key)
		if err != nil {
			return Encoded{}, &SerializationError{Topic: topic, Role: schema_registry.RoleKey, Err: err}
		}
		out.Key = k
	}
	return out, nil
}
