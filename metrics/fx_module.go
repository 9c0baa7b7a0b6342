package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/aalemi-dev/airflow-relay/logger"
)

// FXModule provides *Metrics, MetricsCollector and *OperationObserver and
// runs the metrics listeners for the app's lifetime. Requires Config and
// logger.Logger.
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		NewOperationObserver,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the enabled listeners on start and shuts
// them down on stop.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log logger.Logger) {
	servers := map[string]*http.Server{
		"system":      m.SystemServer,
		"application": m.ApplicationServer,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				name, srv := name, srv
				log.Info("starting metrics server", nil, map[string]interface{}{
					"endpoint": name,
					"address":  srv.Addr,
				})
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						log.Error("metrics server stopped", err, map[string]interface{}{"endpoint": name})
					}
				}()
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var errs []error
			for name, srv := range servers {
				if srv == nil {
					continue
				}
				log.Info("shutting down metrics server", nil, map[string]interface{}{"endpoint": name})
				if err := srv.Shutdown(ctx); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	})
}
