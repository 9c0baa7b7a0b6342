// Package encoder turns validated records into wire-ready key and value
// bytes.
//
// Two strategies share the Encoder interface. Text writes the record as a
// JSON object in schema order and needs nothing else. Binary resolves the
// topic to its shape, registers the key and value schemas with the schema
// registry and writes registry-framed Avro. Which one a process uses is
// decided once, at construction, by whether a registry is configured.
package encoder
