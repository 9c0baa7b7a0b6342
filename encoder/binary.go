package encoder

import (
	"context"
	"fmt"

	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
	"github.com/linkedin/goavro/v2"
)

type serializerPair struct {
	shape *record.Shape
	key   *schema_registry.AvroSerializer
	value *schema_registry.AvroSerializer
}

// Binary writes registry-framed Avro. Serializers are compiled for every
// bound topic at construction, schema ids are registered lazily.
type Binary struct {
	topics *record.TopicTable
	pairs  map[string]serializerPair
}

// NewBinary compiles the key and value schema of every topic in topics.
func NewBinary(registry schema_registry.Registry, topics *record.TopicTable) (*Binary, error) {
	if topics == nil {
		return nil, fmt.Errorf("topic table is required")
	}

	b := &Binary{topics: topics, pairs: make(map[string]serializerPair)}
	for _, topic := range topics.Topics() {
		id, err := topics.Resolve(topic)
		if err != nil {
			return nil, err
		}
		shape, err := record.Lookup(id.Kind, id.Version)
		if err != nil {
			return nil, err
		}

		key, err := newSerializer(registry, topic, schema_registry.RoleKey, shape.Key)
		if err != nil {
			return nil, err
		}
		value, err := newSerializer(registry, topic, schema_registry.RoleValue, shape.Value)
		if err != nil {
			return nil, err
		}
		b.pairs[topic] = serializerPair{shape: shape, key: key, value: value}
	}
	return b, nil
}

func newSerializer(registry schema_registry.Registry, topic string, role schema_registry.Role, schema *record.Schema) (*schema_registry.AvroSerializer, error) {
	text, err := schema.Avro()
	if err != nil {
		return nil, err
	}
	return schema_registry.NewAvroSerializer(schema_registry.AvroSerializerConfig{
		Registry: registry,
		Subject:  schema_registry.Subject(topic, role),
		Schema:   text,
	})
}

// Mode implements Encoder.
func (*Binary) Mode() Mode { return BinaryMode }

// Encode implements Encoder. Both schema ids are resolved before anything
// is encoded, so a registry failure never leaves a half-encoded message.
func (b *Binary) Encode(ctx context.Context, topic string, version record.Version, value, key *record.Record) (Encoded, error) {
	pair, ok := b.pairs[topic]
	if !ok {
		return Encoded{}, &SchemaNotFoundError{Topic: topic, Version: version, Err: record.ErrUnknownTopic}
	}
	if pair.shape.ID.Version != version {
		return Encoded{}, &SchemaNotFoundError{
			Topic:   topic,
			Version: version,
			Err:     fmt.Errorf("topic is bound to %s", pair.shape.ID),
		}
	}
	if value.Shape() != pair.shape {
		return Encoded{}, &SerializationError{
			Topic: topic,
			Role:  schema_registry.RoleValue,
			Err:   fmt.Errorf("record of shape %s cannot be written to a %s topic", value.Shape().ID, pair.shape.ID),
		}
	}

	valueID, err := pair.value.SchemaID(ctx)
	if err != nil {
		return Encoded{}, &SchemaRegistrationError{Subject: pair.value.Subject(), Err: err}
	}
	var keyID int
	if key != nil {
		keyID, err = pair.key.SchemaID(ctx)
		if err != nil {
			return Encoded{}, &SchemaRegistrationError{Subject: pair.key.Subject(), Err: err}
		}
	}

	var out Encoded
	out.Value, err = pair.value.Encode(valueID, native(value))
	if err != nil {
		return Encoded{}, &SerializationError{Topic: topic, Role: schema_registry.RoleValue, Err: err}
	}
	if key != nil {
		out.Key, err = pair.key.Encode(keyID, native(key))
		if err != nil {
			return Encoded{}, &SerializationError{Topic: topic, Role: schema_registry.RoleKey, Err: err}
		}
	}
	return out, nil
}

// native converts r to the form goavro expects: nullable fields become
// unions named after their branch, timestamps become time.Time.
func native(r *record.Record) map[string]interface{} {
	out := make(map[string]interface{}, len(r.Schema().Fields))
	r.Each(func(f record.Field, v interface{}) bool {
		if dt, ok := v.(record.DateTime); ok {
			v = dt.Time
		}
		if f.Nullable() && v != nil {
			v = goavro.Union(branch(f.Type), v)
		}
		out[f.Name] = v
		return true
	})
	return out
}

func branch(t record.Type) string {
	if t == record.Timestamp {
		return "long.timestamp-micros"
	}
	return string(t)
}
