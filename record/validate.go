package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// FieldError is one rejected field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Reason
}

// ValidationError lists every field that made an input unacceptable for
// a shape.
type ValidationError struct {
	Shape    ShapeID
	Problems []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return fmt.Sprintf("invalid %s record: %s", e.Shape, strings.Join(parts, "; "))
}

// Fields returns the names of the rejected fields.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		out[i] = p.Field
	}
	return out
}

const reasonRequired = "field required"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Validate checks raw against the shape of kind and version.
func Validate(kind Kind, version Version, raw map[string]interface{}) (*Record, error) {
	s, err := Lookup(kind, version)
	if err != nil {
		return nil, err
	}
	return s.Validate(raw)
}

// Validate builds a Record from raw. Unknown names are ignored and every
// problem is reported, not just the first. raw values may be decoded JSON
// (json.Number included), query parameter strings or Go scalars.
func (s *Shape) Validate(raw map[string]interface{}) (*Record, error) {
	return s.validate(s.Value, raw)
}

// ValidateKey builds a key Record from caller supplied key fields.
func (s *Shape) ValidateKey(raw map[string]interface{}) (*Record, error) {
	return s.validate(s.Key, raw)
}

func (s *Shape) validate(schema *Schema, raw map[string]interface{}) (*Record, error) {
	rec := &Record{shape: s, schema: schema, values: make([]interface{}, len(schema.Fields))}
	var problems []FieldError

	for i, f := range schema.Fields {
		v := lookup(raw, f)
		if v == nil {
			switch {
			case f.Required:
				problems = append(problems, FieldError{Field: f.Name, Reason: reasonRequired})
			case f.Default != nil:
				rec.values[i] = *f.Default
			}
			continue
		}

		coerced, err := coerce(f, v)
		if err != nil {
			problems = append(problems, FieldError{Field: f.Name, Reason: err.Error()})
			continue
		}
		rec.values[i] = coerced
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Shape: s.ID, Problems: problems}
	}
	return rec, nil
}

func lookup(raw map[string]interface{}, f Field) interface{} {
	if v, ok := raw[f.Name]; ok && v != nil {
		return v
	}
	for _, alias := range f.Aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v
		}
	}
	return nil
}

func coerce(f Field, v interface{}) (interface{}, error) {
	switch f.Type {
	case String:
		return coerceString(f, v)
	case Timestamp:
		return coerceTimestamp(v)
	case Int:
		n, err := coerceInteger(v)
		if err != nil {
			return nil, err
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, errors.New("value out of range for int")
		}
		return int32(n), nil
	case Long:
		return coerceInteger(v)
	case Float:
		x, err := coerceNumber(v)
		if err != nil {
			return nil, err
		}
		return float32(x), nil
	case Double:
		return coerceNumber(v)
	case Boolean:
		return coerceBool(v)
	default:
		return nil, fmt.Errorf("unsupported field type %q", f.Type)
	}
}

func coerceString(f Field, v interface{}) (interface{}, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	if !f.JSONText {
		return nil, errors.New("value is not a valid string")
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("value is not serializable: %w", err)
		}
		return string(b), nil
	default:
		return nil, errors.New("value is not a valid JSON object or string")
	}
}

func coerceTimestamp(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok {
		return nil, errors.New("value is not a valid datetime string")
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTime{Raw: s, Time: t.UTC()}, nil
		}
	}
	return nil, errors.New("value is not a valid ISO 8601 datetime")
}

var errNotInteger = errors.New("value is not a valid integer")

func coerceInteger(v interface{}) (int64, error) {
	switch x := v.(type) {
	case bool:
		return 0, errNotInteger
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return 0, errNotInteger
		}
		return integral(f)
	case float64:
		return integral(x)
	case float32:
		return integral(float64(x))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	default:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return 0, errNotInteger
		}
		return n, nil
	}
}

func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, errors.New("value is not a whole number")
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.New("value out of range for long")
	}
	return int64(f), nil
}

var errNotNumber = errors.New("value is not a valid number")

func coerceNumber(v interface{}) (float64, error) {
	switch x := v.(type) {
	case bool:
		return 0, errNotNumber
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, errNotNumber
		}
		return f, nil
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(x))
		if err != nil {
			return 0, errNotNumber
		}
		return f, nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, errNotNumber
		}
		return f, nil
	}
}

func coerceBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := cast.ToBoolE(strings.TrimSpace(x))
		if err != nil {
			return false, errors.New("value is not a valid boolean")
		}
		return b, nil
	default:
		return false, errors.New("value is not a valid boolean")
	}
}
