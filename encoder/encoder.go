package encoder

import (
	"context"

	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
)

// Mode is the encoding strategy of an Encoder.
type Mode int

const (
	TextMode Mode = iota
	BinaryMode
)

func (m Mode) String() string {
	if m == BinaryMode {
		return "binary"
	}
	return "text"
}

// Encoded holds wire-ready bytes. Key is nil when the message has no key.
type Encoded struct {
	Key   []byte
	Value []byte
}

// Encoder encodes a value record and an optional key record for topic.
type Encoder interface {
	Mode() Mode
	Encode(ctx context.Context, topic string, version record.Version, value, key *record.Record) (Encoded, error)
}

// New returns a Binary encoder when registry is non-nil and a Text
// encoder otherwise.
func New(registry schema_registry.Registry, topics *record.TopicTable) (Encoder, error) {
	if registry == nil {
		return NewText(), nil
	}
	return NewBinary(registry, topics)
}
