// Package config loads the relay's settings from the environment and an
// optional .env file, and splits them into each package's Config.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aalemi-dev/airflow-relay/emitter"
	"github.com/aalemi-dev/airflow-relay/httpserver"
	"github.com/aalemi-dev/airflow-relay/kafka"
	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/schema_registry"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

// Env mirrors the process environment. Names match the variables the
// Airflow deployment already sets.
type Env struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"airflow-relay"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`

	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEVELOPMENT"`

	HTTPAddress        string        `envconfig:"HTTP_ADDRESS" default:":8000"`
	HTTPRequestTimeout time.Duration `envconfig:"HTTP_REQUEST_TIMEOUT" default:"30s"`
	HTTPAllowedOrigins []string      `envconfig:"HTTP_ALLOWED_ORIGINS"`

	KafkaBootstrapServers []string `envconfig:"KAFKA_BOOTSTRAP_SERVERS" default:"localhost:9092"`
	KafkaClientID         string   `envconfig:"KAFKA_CLIENT_ID" default:"airflow-relay"`
	KafkaCompression      string   `envconfig:"KAFKA_COMPRESSION"`
	KafkaMSKAWSRegion     string   `envconfig:"KAFKA_MSK_AWS_REGION"`

	KafkaTLSEnabled    bool   `envconfig:"KAFKA_TLS_ENABLED"`
	KafkaTLSCACertPath string `envconfig:"KAFKA_TLS_CA_CERT_PATH"`

	KafkaSASLMechanism string `envconfig:"KAFKA_SASL_MECHANISM"`
	KafkaSASLUsername  string `envconfig:"KAFKA_SASL_USERNAME"`
	KafkaSASLPassword  string `envconfig:"KAFKA_SASL_PASSWORD"`

	KafkaFlushTimeout          time.Duration `envconfig:"KAFKA_FLUSH_TIMEOUT" default:"10s"`
	KafkaPropagateTraceHeaders bool          `envconfig:"KAFKA_PROPAGATE_TRACE_HEADERS"`

	DagRunTopic         string `envconfig:"KAFKA_DAG_RUN_TOPIC_NAME" required:"true"`
	TaskInstanceTopic   string `envconfig:"KAFKA_TASK_INSTANCE_TOPIC_NAME" required:"true"`
	V2DagRunTopic       string `envconfig:"KAFKA_AIRFLOW_V2_DAG_RUN_TOPIC_NAME" required:"true"`
	V2TaskInstanceTopic string `envconfig:"KAFKA_AIRFLOW_V2_TASK_INSTANCE_TOPIC_NAME" required:"true"`
	V3DagRunTopic       string `envconfig:"KAFKA_AIRFLOW_V3_DAG_RUN_TOPIC_NAME" required:"true"`
	V3TaskInstanceTopic string `envconfig:"KAFKA_AIRFLOW_V3_TASK_INSTANCE_TOPIC_NAME" required:"true"`

	SchemaRegistryURL      string        `envconfig:"SCHEMA_REGISTRY_URL"`
	SchemaRegistryUsername string        `envconfig:"SCHEMA_REGISTRY_USERNAME"`
	SchemaRegistryPassword string        `envconfig:"SCHEMA_REGISTRY_PASSWORD"`
	SchemaRegistryTimeout  time.Duration `envconfig:"SCHEMA_REGISTRY_TIMEOUT" default:"10s"`

	TracingEnabled     bool    `envconfig:"TRACING_ENABLED"`
	TracingExport      bool    `envconfig:"TRACING_EXPORT"`
	TracingSampleRatio float64 `envconfig:"TRACING_SAMPLE_RATIO" default:"1"`

	Metrics metrics.Config `ignored:"true"`
}

// Config is the decoded environment split per package.
type Config struct {
	Logger         logger.Config
	Tracer         tracer.Config
	TracingEnabled bool
	Metrics        metrics.Config
	Kafka          kafka.Config
	Emitter        emitter.Config
	HTTP           httpserver.Config
	Topics         *record.TopicTable

	// SchemaRegistry is nil when SCHEMA_REGISTRY_URL is unset, which selects
	// text mode.
	SchemaRegistry *schema_registry.Config
}

// ErrInvalidConfig wraps every problem found after decoding.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Load reads files (default ".env") when present, then decodes the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	// metrics.Config carries its own envconfig tags.
	if err := envconfig.Process("", &env.Metrics); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return env.Split()
}

// Split converts the decoded environment into package configs.
func (e Env) Split() (*Config, error) {
	brokers := lo.Compact(lo.Map(e.KafkaBootstrapServers, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
	if len(brokers) == 0 {
		return nil, fmt.Errorf("%w: KAFKA_BOOTSTRAP_SERVERS has no broker address", ErrInvalidConfig)
	}

	topics, err := record.NewTopicTable(map[record.ShapeID]string{
		{Kind: record.DagRun, Version: record.Legacy}:       e.DagRunTopic,
		{Kind: record.TaskInstance, Version: record.Legacy}: e.TaskInstanceTopic,
		{Kind: record.DagRun, Version: record.V2}:           e.V2DagRunTopic,
		{Kind: record.TaskInstance, Version: record.V2}:     e.V2TaskInstanceTopic,
		{Kind: record.DagRun, Version: record.V3}:           e.V3DagRunTopic,
		{Kind: record.TaskInstance, Version: record.V3}:     e.V3TaskInstanceTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if e.HTTPRequestTimeout > 0 && e.HTTPRequestTimeout <= e.KafkaFlushTimeout {
		return nil, fmt.Errorf("%w: HTTP_REQUEST_TIMEOUT (%s) must exceed KAFKA_FLUSH_TIMEOUT (%s)",
			ErrInvalidConfig, e.HTTPRequestTimeout, e.KafkaFlushTimeout)
	}

	metricsCfg := e.Metrics
	if metricsCfg.ServiceName == "" {
		metricsCfg.ServiceName = e.ServiceName
	}

	cfg := &Config{
		Logger: logger.Config{
			Level:         e.LogLevel,
			EnableTracing: e.TracingEnabled,
			ServiceName:   e.ServiceName,
			Development:   e.LogDevelopment,
		},
		Tracer: tracer.Config{
			ServiceName:  e.ServiceName,
			AppEnv:       e.AppEnv,
			EnableExport: e.TracingExport,
			SampleRatio:  e.TracingSampleRatio,
		},
		TracingEnabled: e.TracingEnabled,
		Metrics:        metricsCfg,
		Kafka: kafka.Config{
			Brokers:          brokers,
			ClientID:         e.KafkaClientID,
			CompressionCodec: e.KafkaCompression,
			TLS: kafka.TLSConfig{
				Enabled:    e.KafkaTLSEnabled,
				CACertPath: e.KafkaTLSCACertPath,
			},
			SASL: kafka.SASLConfig{
				Enabled:   e.KafkaSASLMechanism != "",
				Mechanism: e.KafkaSASLMechanism,
				Username:  e.KafkaSASLUsername,
				Password:  e.KafkaSASLPassword,
			},
			MSK: kafka.MSKConfig{Region: e.KafkaMSKAWSRegion},
		},
		Emitter: emitter.Config{
			FlushTimeout:          e.KafkaFlushTimeout,
			PropagateTraceHeaders: e.KafkaPropagateTraceHeaders,
		},
		HTTP: httpserver.Config{
			Address:        e.HTTPAddress,
			RequestTimeout: e.HTTPRequestTimeout,
			AllowedOrigins: e.HTTPAllowedOrigins,
		},
		Topics: topics,
	}

	if e.SchemaRegistryURL != "" {
		cfg.SchemaRegistry = &schema_registry.Config{
			URL:      e.SchemaRegistryURL,
			Username: e.SchemaRegistryUsername,
			Password: e.SchemaRegistryPassword,
			Timeout:  e.SchemaRegistryTimeout,
		}
	}
	return cfg, nil
}

// BinaryMode reports whether a schema registry is configured.
func (c *Config) BinaryMode() bool {
	return c.SchemaRegistry != nil
}
