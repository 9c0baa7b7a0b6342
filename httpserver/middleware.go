package httpserver

import (
	"strconv"
	"time"

	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID reuses the caller's X-Request-ID or generates one, and echoes
// it on the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// traceHeaders are the W3C headers a caller may send to join its trace.
var traceHeaders = []string{"traceparent", "tracestate", "baggage"}

// traceContext puts the caller's remote span on the request context, so the
// publish span becomes its child instead of a new root.
func traceContext(t tracer.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		carrier := make(map[string]string, len(traceHeaders))
		for _, h := range traceHeaders {
			if v := c.GetHeader(h); v != "" {
				carrier[h] = v
			}
		}
		if len(carrier) > 0 {
			c.Request = c.Request.WithContext(t.SetCarrierOnContext(c.Request.Context(), carrier))
		}
		c.Next()
	}
}

// accessLog writes one line per request once the handler has finished.
func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			requestIDKey:  c.GetString(requestIDKey),
		}
		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= 500:
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			log.ErrorWithContext(ctx, "request failed", err, fields)
		case c.Writer.Status() >= 400:
			log.WarnWithContext(ctx, "request rejected", nil, fields)
		default:
			log.InfoWithContext(ctx, "request completed", nil, fields)
		}
	}
}

type httpMetrics struct {
	requests metrics.Counter
	latency  metrics.Histogram
}

func newHTTPMetrics(m metrics.MetricsCollector) *httpMetrics {
	return &httpMetrics{
		requests: m.CreateCounter("http_requests_total",
			"HTTP requests by route and status.",
			[]string{"method", "route", "status"}),
		latency: m.CreateHistogram("http_request_duration_seconds",
			"HTTP request latency by route.",
			[]string{"method", "route"},
			nil),
	}
}

// middleware labels by route template so unmatched paths share one series.
func (h *httpMetrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
