package record

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrUnknownShape is returned for a (kind, version) pair with no shape.
var ErrUnknownShape = errors.New("record: unknown shape")

// Shape is one concrete event shape with its value and key schemas.
type Shape struct {
	ID    ShapeID
	Value *Schema
	// Key is projected from Value by KeyFields.
	Key *Schema
}

type shapeDef struct {
	name   string
	doc    string
	fields []Field
}

var shapeDefs = map[ShapeID]shapeDef{
	{DagRun, Legacy}:       {"value", "Schema representing the state and details of an Airflow DAG run.", legacyDagRunFields},
	{TaskInstance, Legacy}: {"value", "Schema representing the state and details of an Airflow Task Instance.", legacyTaskInstanceFields},
	{DagRun, V2}:           {"DagRun", "State change of an Airflow 2 DAG run.", v2DagRunFields},
	{TaskInstance, V2}:     {"TaskInstance", "State change of an Airflow 2 task instance.", v2TaskInstanceFields},
	{DagRun, V3}:           {"DagRun", "State change of an Airflow 3 DAG run.", v3DagRunFields},
	{TaskInstance, V3}:     {"TaskInstance", "State change of an Airflow 3 task instance.", v3TaskInstanceFields},
}

var catalog = buildCatalog()

func buildCatalog() map[ShapeID]*Shape {
	shapes := make(map[ShapeID]*Shape, len(shapeDefs))
	for _, id := range ShapeIDs() {
		def, ok := shapeDefs[id]
		if !ok {
			panic(fmt.Sprintf("record: no fields declared for %s", id))
		}
		value := newSchema(def.name, def.doc, def.fields)

		keyNames := KeyFields(id.Kind)
		if missing, _ := lo.Difference(keyNames, value.FieldNames()); len(missing) > 0 {
			panic(fmt.Sprintf("record: %s lacks key fields %v", id, missing))
		}
		for _, name := range keyNames {
			if f, _ := value.Field(name); !f.Required {
				panic(fmt.Sprintf("record: %s key field %s must be required", id, name))
			}
		}

		shapes[id] = &Shape{ID: id, Value: value, Key: value.project("key", keyNames)}
	}
	return shapes
}

// Lookup returns the shape for kind and version.
func Lookup(kind Kind, version Version) (*Shape, error) {
	s, ok := catalog[ShapeID{Kind: kind, Version: version}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownShape, kind, version)
	}
	return s, nil
}

// Shapes returns every shape in ShapeIDs order.
func Shapes() []*Shape {
	return lo.Map(ShapeIDs(), func(id ShapeID, _ int) *Shape { return catalog[id] })
}

// ValueSchema returns the value schema of kind and version.
func ValueSchema(kind Kind, version Version) (*Schema, error) {
	s, err := Lookup(kind, version)
	if err != nil {
		return nil, err
	}
	return s.Value, nil
}

// KeySchema returns the key schema of kind and version.
func KeySchema(kind Kind, version Version) (*Schema, error) {
	s, err := Lookup(kind, version)
	if err != nil {
		return nil, err
	}
	return s.Key, nil
}

// Example returns the documented example record of the shape.
func (s *Shape) Example() map[string]interface{} {
	out := make(map[string]interface{}, len(s.Value.Fields))
	for _, f := range s.Value.Fields {
		out[f.Name] = f.Example
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
