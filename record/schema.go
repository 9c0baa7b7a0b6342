package record

import (
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// Type is the scalar type of a field.
type Type string

const (
	String  Type = "string"
	Int     Type = "int"
	Long    Type = "long"
	Float   Type = "float"
	Double  Type = "double"
	Boolean Type = "boolean"
	// Timestamp is ISO-8601 text on input, carried as a DateTime and
	// published as Avro long/timestamp-micros.
	Timestamp Type = "timestamp"
)

// Field describes one schema field.
type Field struct {
	Name     string
	Type     Type
	Required bool
	// JSONText fields hold JSON documents as text. Object and array input
	// is marshalled, string input is kept as is.
	JSONText bool
	// Default replaces a missing or null optional value. Only string
	// defaults are used.
	Default *string
	// Aliases are alternative input names.
	Aliases []string
	Doc     string
	Example interface{}
}

// Nullable reports whether the field admits null.
func (f Field) Nullable() bool {
	return !f.Required && f.Default == nil
}

// Schema is an ordered record schema.
type Schema struct {
	Name   string
	Doc    string
	Fields []Field

	index map[string]int
}

func newSchema(name, doc string, fields []Field) *Schema {
	s := &Schema{Name: name, Doc: doc, Fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("record: schema %s declares %s twice", name, f.Name))
		}
		s.index[f.Name] = i
	}
	return s
}

// Field returns the field called name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// FieldNames returns the field names in schema order.
func (s *Schema) FieldNames() []string {
	return lo.Map(s.Fields, func(f Field, _ int) string { return f.Name })
}

// project keeps the fields named in keep, in s's order.
func (s *Schema) project(name string, keep []string) *Schema {
	fields := lo.Filter(s.Fields, func(f Field, _ int) bool {
		return lo.Contains(keep, f.Name)
	})
	return newSchema(name, "", fields)
}

type avroField struct {
	Name    string          `json:"name"`
	Type    interface{}     `json:"type"`
	Default json.RawMessage `json:"default,omitempty"`
	Doc     string          `json:"doc,omitempty"`
}

type avroRecord struct {
	Type   string      `json:"type"`
	Name   string      `json:"name"`
	Doc    string      `json:"doc,omitempty"`
	Fields []avroField `json:"fields"`
}

func (t Type) avro() interface{} {
	if t == Timestamp {
		return map[string]string{"type": "long", "logicalType": "timestamp-micros"}
	}
	return string(t)
}

// MarshalJSON renders s as an Avro record schema.
func (s *Schema) MarshalJSON() ([]byte, error) {
	rec := avroRecord{Type: "record", Name: s.Name, Doc: s.Doc, Fields: make([]avroField, 0, len(s.Fields))}
	for _, f := range s.Fields {
		af := avroField{Name: f.Name, Type: f.Type.avro(), Doc: f.Doc}
		switch {
		case f.Default != nil:
			def, err := json.Marshal(*f.Default)
			if err != nil {
				return nil, err
			}
			af.Default = def
		case !f.Required:
			af.Type = []interface{}{"null", f.Type.avro()}
			af.Default = json.RawMessage("null")
		}
		rec.Fields = append(rec.Fields, af)
	}
	return json.Marshal(rec)
}

// Avro returns the Avro schema text registered with the schema registry.
func (s *Schema) Avro() (string, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("record: render schema %s: %w", s.Name, err)
	}
	return string(b), nil
}
