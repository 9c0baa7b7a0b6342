// Package schema_registry talks to a Confluent-compatible schema registry
// and frames Avro payloads in the registry wire format.
//
// Subjects follow the topic name strategy: "<topic>-key" and
// "<topic>-value". Registered ids are cached per (subject, type, schema),
// so registering the same schema again costs no round trip.
//
// Wire format of a framed payload:
//
//	byte 0     magic byte 0x0
//	bytes 1-4  schema id, big-endian
//	bytes 5-   Avro binary body
//
// Registry failures are classified with the sentinels in errors.go so
// callers can tell an unreachable registry from an incompatible schema.
package schema_registry
