package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/aalemi-dev/airflow-relay/emitter"
	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"go.uber.org/fx"
)

// FXModule provides the router and server and runs the server for the
// app's lifetime.
var FXModule = fx.Module("httpserver",
	fx.Provide(
		NewRouterWithDI,
		NewServerWithDI,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RouterParams groups the dependencies of NewRouterWithDI.
type RouterParams struct {
	fx.In

	Dispatcher *emitter.Dispatcher
	Logger     logger.Logger
	Metrics    metrics.MetricsCollector `optional:"true"`
	Tracer     tracer.Tracer            `optional:"true"`
}

// NewRouterWithDI builds the gin router over the dispatcher.
func NewRouterWithDI(params RouterParams) http.Handler {
	return NewRouter(params.Dispatcher, params.Logger, params.Metrics, params.Tracer)
}

// NewServerWithDI wraps the router in CORS and returns the server.
func NewServerWithDI(cfg Config, router http.Handler) *http.Server {
	return NewServer(cfg, NewHandler(cfg, router))
}

// RegisterServerLifecycle binds the listener on start, so a taken port
// fails startup, and shuts the server down on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, srv *http.Server, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting http server", nil, map[string]interface{}{"address": ln.Addr().String()})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server", nil)
			return srv.Shutdown(ctx)
		},
	})
}
