package schema_registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/linkedin/goavro/v2"
)

// AvroSerializer encodes native values with one compiled Avro schema and
// frames them with the id that schema has under Subject.
type AvroSerializer struct {
	codec    *goavro.Codec
	subject  string
	registry Registry

	mu       sync.Mutex
	schemaID int
}

// AvroSerializerConfig holds configuration for an AvroSerializer.
type AvroSerializerConfig struct {
	Registry Registry
	Subject  string
	Schema   string
}

// NewAvroSerializer compiles cfg.Schema. It does not contact the registry.
func NewAvroSerializer(cfg AvroSerializerConfig) (*AvroSerializer, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Subject == "" {
		return nil, fmt.Errorf("subject is required")
	}

	codec, err := goavro.NewCodec(cfg.Schema)
	if err != nil {
		return nil, fmt.Errorf("compile avro schema for subject %s: %w", cfg.Subject, err)
	}

	return &AvroSerializer{
		codec:    codec,
		subject:  cfg.Subject,
		registry: cfg.Registry,
	}, nil
}

// Subject returns the subject the schema is registered under.
func (s *AvroSerializer) Subject() string {
	return s.subject
}

// Schema returns the canonical form of the compiled schema.
func (s *AvroSerializer) Schema() string {
	return s.codec.CanonicalSchema()
}

// SchemaID registers the schema on first use and returns its id. A failed
// registration is retried on the next call.
func (s *AvroSerializer) SchemaID(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schemaID != 0 {
		return s.schemaID, nil
	}
	id, err := s.registry.RegisterSchema(ctx, s.subject, s.codec.Schema(), SchemaTypeAvro)
	if err != nil {
		return 0, err
	}
	s.schemaID = id
	return id, nil
}

// Encode frames the Avro binary encoding of native with schemaID.
func (s *AvroSerializer) Encode(schemaID int, native interface{}) ([]byte, error) {
	return s.codec.BinaryFromNative(EncodeSchemaID(schemaID), native)
}

// Serialize is SchemaID followed by Encode.
func (s *AvroSerializer) Serialize(ctx context.Context, native interface{}) ([]byte, error) {
	id, err := s.SchemaID(ctx)
	if err != nil {
		return nil, err
	}
	return s.Encode(id, native)
}

// Decode parses a framed payload back into its native form.
func (s *AvroSerializer) Decode(data []byte) (int, interface{}, error) {
	id, body, err := DecodeSchemaID(data)
	if err != nil {
		return 0, nil, err
	}
	native, rest, err := s.codec.NativeFromBinary(body)
	if err != nil {
		return id, nil, fmt.Errorf("decode avro body: %w", err)
	}
	if len(rest) != 0 {
		return id, nil, fmt.Errorf("decode avro body: %d trailing bytes", len(rest))
	}
	return id, native, nil
}
