package main

import (
	"github.com/aalemi-dev/airflow-relay/config"
	"github.com/aalemi-dev/airflow-relay/emitter"
	"github.com/aalemi-dev/airflow-relay/encoder"
	"github.com/aalemi-dev/airflow-relay/httpserver"
	"github.com/aalemi-dev/airflow-relay/kafka"
	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/observability"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.StringSlice("env-file")...)
	if err != nil {
		return err
	}
	fx.New(appOptions(cfg)...).Run()
	return nil
}

// appOptions composes the relay. The registry module is only part of the
// graph in binary mode, so the encoder falls back to text otherwise.
func appOptions(cfg *config.Config) []fx.Option {
	opts := []fx.Option{
		fx.Supply(
			cfg.Logger,
			cfg.Tracer,
			cfg.Metrics,
			cfg.Kafka,
			cfg.Emitter,
			cfg.HTTP,
			cfg.Topics,
		),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap.WithOptions(zap.IncreaseLevel(zap.WarnLevel))}
		}),

		logger.FXModule,
		tracingModule(cfg.TracingEnabled),
		metrics.FXModule,
		kafka.FXModule,
		encoder.FXModule,
		emitter.FXModule,
		httpserver.FXModule,

		fx.Provide(
			newObserver,
			fx.Annotate(kafka.NewLogDeliveryObserver, fx.As(new(kafka.DeliveryObserver))),
			func(l logger.Logger) kafka.Logger { return l },
			func(l logger.Logger) emitter.Logger { return l },
			func(l logger.Logger) schema_registry.Logger { return l },
		),
		fx.Invoke(logStartup(cfg)),
	}

	if cfg.SchemaRegistry != nil {
		opts = append(opts,
			fx.Supply(*cfg.SchemaRegistry),
			schema_registry.FXModule,
		)
	}
	return opts
}

// tracingModule installs the SDK tracer when tracing is enabled. Otherwise
// spans are never sampled, though incoming trace context still propagates.
func tracingModule(enabled bool) fx.Option {
	if enabled {
		return tracer.FXModule
	}
	return fx.Provide(fx.Annotate(tracer.NewNoop, fx.As(new(tracer.Tracer))))
}

// newObserver fans operation events out to metrics and the error log.
func newObserver(m *metrics.OperationObserver, l logger.Logger) observability.Observer {
	return observability.Multi(m, &observability.LogObserver{Logger: l})
}

func logStartup(cfg *config.Config) func(logger.Logger, encoder.Encoder) {
	return func(l logger.Logger, enc encoder.Encoder) {
		l.Info("airflow relay configured", nil, map[string]interface{}{
			"mode":    enc.Mode().String(),
			"topics":  cfg.Topics.Topics(),
			"msk_iam": cfg.Kafka.MSK.Enabled(),
			"version": version,
		})
	}
}
