package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTime is a validated ISO-8601 timestamp. Raw is the text as received
// and is what text encoding emits.
type DateTime struct {
	Raw  string
	Time time.Time
}

// MarshalJSON emits the original text.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw)
}

func (d DateTime) String() string {
	return d.Raw
}

// Record is a validated, immutable set of field values laid out in schema
// order. Values are string, int32, int64, float32, float64, bool, DateTime
// or nil, following the field type.
type Record struct {
	shape  *Shape
	schema *Schema
	values []interface{}
}

// Shape returns the shape the record was validated against.
func (r *Record) Shape() *Shape {
	return r.shape
}

// Schema returns the schema the values follow: the shape's value schema,
// or its key schema for a record returned by Key.
func (r *Record) Schema() *Schema {
	return r.schema
}

// Get returns the value of the named field.
func (r *Record) Get(name string) (interface{}, bool) {
	i, ok := r.schema.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Each calls fn for every field in schema order until fn returns false.
func (r *Record) Each(fn func(f Field, value interface{}) bool) {
	for i, f := range r.schema.Fields {
		if !fn(f, r.values[i]) {
			return
		}
	}
}

// Map returns the values keyed by field name.
func (r *Record) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.values))
	r.Each(func(f Field, v interface{}) bool {
		out[f.Name] = v
		return true
	})
	return out
}

// Key projects the record onto its shape's key schema.
func (r *Record) Key() *Record {
	key := &Record{shape: r.shape, schema: r.shape.Key, values: make([]interface{}, len(r.shape.Key.Fields))}
	for i, f := range r.shape.Key.Fields {
		key.values[i], _ = r.Get(f.Name)
	}
	return key
}

// MarshalJSON writes a JSON object with every field in schema order, nulls
// included.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.schema.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, _ := json.Marshal(f.Name)
		buf.Write(name)
		buf.WriteByte(':')
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
