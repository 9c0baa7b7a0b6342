package record

import (
	"fmt"
	"strings"
)

// Kind is the Airflow entity an event describes.
type Kind int

const (
	DagRun Kind = iota + 1
	TaskInstance
)

// Kinds lists every Kind in declaration order.
var Kinds = []Kind{DagRun, TaskInstance}

func (k Kind) String() string {
	switch k {
	case DagRun:
		return "dag_run"
	case TaskInstance:
		return "task_instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts "dag_run" and "task_instance".
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("record: unknown kind %q", s)
}

// Version is the payload format of the event source.
type Version int

const (
	// Legacy is the flat query-parameter payload of the first API.
	Legacy Version = iota + 1
	// V2 is the Airflow 2 listener payload.
	V2
	// V3 is the Airflow 3 listener payload.
	V3
)

// Versions lists every Version in declaration order.
var Versions = []Version{Legacy, V2, V3}

func (v Version) String() string {
	switch v {
	case Legacy:
		return "legacy"
	case V2:
		return "v2"
	case V3:
		return "v3"
	default:
		return fmt.Sprintf("version(%d)", int(v))
	}
}

// ParseVersion accepts "legacy", "v2" and "v3".
func ParseVersion(s string) (Version, error) {
	for _, v := range Versions {
		if strings.EqualFold(s, v.String()) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("record: unknown version %q", s)
}

// ShapeID names one concrete shape.
type ShapeID struct {
	Kind    Kind
	Version Version
}

func (id ShapeID) String() string {
	return id.Kind.String() + "/" + id.Version.String()
}

// ShapeIDs lists every shape, kinds outermost.
func ShapeIDs() []ShapeID {
	ids := make([]ShapeID, 0, len(Kinds)*len(Versions))
	for _, k := range Kinds {
		for _, v := range Versions {
			ids = append(ids, ShapeID{Kind: k, Version: v})
		}
	}
	return ids
}

// KeyFields returns the value fields that form the message key of k.
func KeyFields(k Kind) []string {
	switch k {
	case DagRun:
		return []string{"dag_id"}
	case TaskInstance:
		return []string{"dag_id", "task_id"}
	default:
		return nil
	}
}
