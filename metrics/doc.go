// Package metrics exposes the relay's Prometheus metrics.
//
// Two registries are served on separate listeners: the system registry
// (Go runtime, process and build info, default :9090) and the application
// registry (default :9091) holding relay series such as
// airflow_relay_operations_total and airflow_relay_http_requests_total.
// Every series carries a constant service label.
//
// OperationObserver adapts the registry to observability.Observer so the
// kafka, schema_registry and emitter packages feed it without importing
// Prometheus.
package metrics
