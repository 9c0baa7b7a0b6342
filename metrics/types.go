package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a monotonically increasing series family.
type Counter interface {
	WithLabelValues(lvs ...string) Counter
	Inc()
	Add(val float64)
}

// Gauge is a series family that can go up and down.
type Gauge interface {
	WithLabelValues(lvs ...string) Gauge
	Set(val float64)
	Inc()
	Dec()
	Add(val float64)
}

// Histogram is a bucketed distribution family.
type Histogram interface {
	WithLabelValues(lvs ...string) Observer
	Observe(val float64)
}

// Observer records a single observation.
type Observer interface {
	Observe(val float64)
}

type counterVec struct {
	vec *prometheus.CounterVec
}

func (c *counterVec) WithLabelValues(lvs ...string) Counter {
	return &counter{metric: c.vec.WithLabelValues(lvs...)}
}

func (c *counterVec) Inc()            { c.vec.WithLabelValues().Inc() }
func (c *counterVec) Add(val float64) { c.vec.WithLabelValues().Add(val) }

type counter struct {
	metric prometheus.Counter
}

// WithLabelValues on an already labeled counter returns itself.
func (c *counter) WithLabelValues(...string) Counter { return c }
func (c *counter) Inc()                              { c.metric.Inc() }
func (c *counter) Add(val float64)                   { c.metric.Add(val) }

type gaugeVec struct {
	vec *prometheus.GaugeVec
}

func (g *gaugeVec) WithLabelValues(lvs ...string) Gauge {
	return &gauge{metric: g.vec.WithLabelValues(lvs...)}
}

func (g *gaugeVec) Set(val float64) { g.vec.WithLabelValues().Set(val) }
func (g *gaugeVec) Inc()            { g.vec.WithLabelValues().Inc() }
func (g *gaugeVec) Dec()            { g.vec.WithLabelValues().Dec() }
func (g *gaugeVec) Add(val float64) { g.vec.WithLabelValues().Add(val) }

type gauge struct {
	metric prometheus.Gauge
}

func (g *gauge) WithLabelValues(...string) Gauge { return g }
func (g *gauge) Set(val float64)                 { g.metric.Set(val) }
func (g *gauge) Inc()                            { g.metric.Inc() }
func (g *gauge) Dec()                            { g.metric.Dec() }
func (g *gauge) Add(val float64)                 { g.metric.Add(val) }

type histogramVec struct {
	vec *prometheus.HistogramVec
}

func (h *histogramVec) WithLabelValues(lvs ...string) Observer {
	return h.vec.WithLabelValues(lvs...)
}

func (h *histogramVec) Observe(val float64) { h.vec.WithLabelValues().Observe(val) }
