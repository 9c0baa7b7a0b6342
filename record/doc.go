// Package record defines the Airflow event shapes the relay accepts and
// the Avro schemas they are published with.
//
// A shape is identified by a Kind (DAG run or task instance) and a source
// Version (legacy query-parameter payloads, Airflow 2 or Airflow 3 listener
// payloads). Each shape carries an ordered value Schema; its key Schema is
// projected from the value fields named by KeyFields, never declared on
// its own.
//
// Validate turns a loosely typed field map (decoded JSON or query
// parameters) into an immutable Record whose values have the Go type of
// their schema field:
//
//	rec, err := record.Validate(record.DagRun, record.V2, fields)
//	var verr *record.ValidationError
//	if errors.As(err, &verr) {
//	    // verr.Problems names each offending field
//	}
//
// TopicTable binds every shape to exactly one topic and back.
package record
