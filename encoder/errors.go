package encoder

import (
	"fmt"

	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
)

// SchemaNotFoundError is returned in binary mode when the topic, or the
// topic and version together, have no schema pair. No registry call is
// made before it is returned.
type SchemaNotFoundError struct {
	Topic   string
	Version record.Version
	Err     error
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("no schema for topic %q at version %s: %v", e.Topic, e.Version, e.Err)
}

func (e *SchemaNotFoundError) Unwrap() error { return e.Err }

// SchemaRegistrationError is returned when the registry is unreachable or
// rejects a schema.
type SchemaRegistrationError struct {
	Subject string
	Err     error
}

func (e *SchemaRegistrationError) Error() string {
	return fmt.Sprintf("register schema for subject %s: %v", e.Subject, e.Err)
}

func (e *SchemaRegistrationError) Unwrap() error { return e.Err }

// SerializationError is returned when a key or value cannot be encoded.
type SerializationError struct {
	Topic string
	Role  schema_registry.Role
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s for topic %s: %v", e.Role, e.Topic, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
