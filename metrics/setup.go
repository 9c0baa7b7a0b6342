package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the system and application registries and their servers.
// A server is nil when its address is disabled.
type Metrics struct {
	SystemServer      *http.Server
	ApplicationServer *http.Server

	SystemRegistry      *prometheus.Registry
	ApplicationRegistry *prometheus.Registry

	namespace string
	// registerer adds the service label to application series.
	registerer prometheus.Registerer
}

// NewMetrics builds both registries. The system registry gets the Go,
// process and build info collectors.
func NewMetrics(cfg Config) *Metrics {
	labels := prometheus.Labels{"service": cfg.ServiceName}

	m := &Metrics{
		SystemRegistry:      prometheus.NewRegistry(),
		ApplicationRegistry: prometheus.NewRegistry(),
		namespace:           cfg.Namespace,
	}
	if m.namespace == "" {
		m.namespace = DefaultNamespace
	}

	prometheus.WrapRegistererWith(labels, m.SystemRegistry).MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m.registerer = prometheus.WrapRegistererWith(labels, m.ApplicationRegistry)

	if addr := addressOrDefault(cfg.SystemMetricsAddress, DefaultSystemMetricsAddress); addr != "" {
		m.SystemServer = newServer(addr, m.SystemRegistry)
	}
	if addr := addressOrDefault(cfg.ApplicationMetricsAddress, DefaultApplicationMetricsAddress); addr != "" {
		m.ApplicationServer = newServer(addr, m.ApplicationRegistry)
	}
	return m
}

func newServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
