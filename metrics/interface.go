package metrics

// MetricsCollector creates series on the application registry without
// exposing Prometheus types. *Metrics implements it.
//
// Names are prefixed with the configured namespace:
//
//	c := m.CreateCounter("http_requests_total", "HTTP requests", []string{"route", "status"})
//	c.WithLabelValues("/health", "200").Inc()
type MetricsCollector interface {
	CreateCounter(name, help string, labels []string) Counter
	CreateHistogram(name, help string, labels []string, buckets []float64) Histogram
	CreateGauge(name, help string, labels []string) Gauge
}
