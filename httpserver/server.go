package httpserver

import (
	"net/http"

	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// NewRouter wires the health check and the six event routes. m and t may
// be nil; without t incoming trace headers are ignored.
//
//	GET  /health
//	POST /api/v1/airflow/events/{dag_run,task_instance}      query or form
//	POST /api/v1/airflow_v2/events/{dag_run,task_instance}   JSON body
//	POST /api/v1/airflow_v3/events/{dag_run,task_instance}   JSON body
func NewRouter(publisher Publisher, log logger.Logger, m metrics.MetricsCollector, t tracer.Tracer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(log))
	if t != nil {
		r.Use(traceContext(t))
	}
	if m != nil {
		r.Use(newHTTPMetrics(m).middleware())
	}

	h := &handlers{publisher: publisher}
	r.GET("/health", h.health)

	api := r.Group("/api/v1")

	legacy := api.Group("/airflow/events")
	legacy.POST("/dag_run", h.fromParams(record.DagRun))
	legacy.POST("/task_instance", h.fromParams(record.TaskInstance))

	for _, version := range []record.Version{record.V2, record.V3} {
		g := api.Group("/airflow_" + version.String() + "/events")
		g.POST("/dag_run", h.fromBody(record.DagRun, version))
		g.POST("/task_instance", h.fromBody(record.TaskInstance, version))
	}

	return r
}

// NewHandler wraps router in CORS handling. An empty origin list allows
// every origin, with credentials.
func NewHandler(cfg Config, router http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts).Handler(router)
}

// NewServer returns the HTTP server for handler. It is not started.
func NewServer(cfg Config, handler http.Handler) *http.Server {
	cfg = cfg.withDefaults()
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           http.TimeoutHandler(handler, cfg.RequestTimeout, `{"detail":"request timed out"}`),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
