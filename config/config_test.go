package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var topicEnv = map[string]string{
	"KAFKA_DAG_RUN_TOPIC_NAME":                  "airflow.dag_run",
	"KAFKA_TASK_INSTANCE_TOPIC_NAME":            "airflow.task_instance",
	"KAFKA_AIRFLOW_V2_DAG_RUN_TOPIC_NAME":       "airflow.v2.dag_run",
	"KAFKA_AIRFLOW_V2_TASK_INSTANCE_TOPIC_NAME": "airflow.v2.task_instance",
	"KAFKA_AIRFLOW_V3_DAG_RUN_TOPIC_NAME":       "airflow.v3.dag_run",
	"KAFKA_AIRFLOW_V3_TASK_INSTANCE_TOPIC_NAME": "airflow.v3.task_instance",
}

func setTopics(t *testing.T) {
	t.Helper()
	for k, v := range topicEnv {
		t.Setenv(k, v)
	}
}

func noDotenv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	setTopics(t)

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "airflow-relay", cfg.Kafka.ClientID)
	assert.False(t, cfg.Kafka.MSK.Enabled())
	assert.False(t, cfg.BinaryMode())
	assert.Nil(t, cfg.SchemaRegistry)
	assert.Equal(t, 10*time.Second, cfg.Emitter.FlushTimeout)
	assert.False(t, cfg.Emitter.PropagateTraceHeaders)
	assert.Equal(t, ":8000", cfg.HTTP.Address)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "airflow-relay", cfg.Metrics.ServiceName)

	topic, err := cfg.Topics.Topic(record.TaskInstance, record.V3)
	require.NoError(t, err)
	assert.Equal(t, "airflow.v3.task_instance", topic)

	id, err := cfg.Topics.Resolve("airflow.dag_run")
	require.NoError(t, err)
	assert.Equal(t, record.ShapeID{Kind: record.DagRun, Version: record.Legacy}, id)
}

func TestLoadRegistryAndMSK(t *testing.T) {
	setTopics(t)
	t.Setenv("SCHEMA_REGISTRY_URL", "http://registry:8081")
	t.Setenv("KAFKA_MSK_AWS_REGION", "eu-west-1")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "b-1:9098, b-2:9098,")
	t.Setenv("KAFKA_PROPAGATE_TRACE_HEADERS", "true")

	cfg, err := Load(noDotenv(t))
	require.NoError(t, err)

	require.True(t, cfg.BinaryMode())
	assert.Equal(t, "http://registry:8081", cfg.SchemaRegistry.URL)
	assert.Equal(t, 10*time.Second, cfg.SchemaRegistry.Timeout)
	assert.Equal(t, "eu-west-1", cfg.Kafka.MSK.Region)
	assert.True(t, cfg.Kafka.MSK.Enabled())
	assert.Equal(t, []string{"b-1:9098", "b-2:9098"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Emitter.PropagateTraceHeaders)
}

func TestLoadMissingTopic(t *testing.T) {
	setTopics(t)
	require.NoError(t, os.Unsetenv("KAFKA_AIRFLOW_V3_DAG_RUN_TOPIC_NAME"))

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "KAFKA_AIRFLOW_V3_DAG_RUN_TOPIC_NAME")
}

func TestLoadSharedTopic(t *testing.T) {
	setTopics(t)
	t.Setenv("KAFKA_AIRFLOW_V2_DAG_RUN_TOPIC_NAME", "airflow.dag_run")

	_, err := Load(noDotenv(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "share topic")
}

func TestLoadRequestTimeoutMustExceedFlush(t *testing.T) {
	setTopics(t)
	t.Setenv("KAFKA_FLUSH_TIMEOUT", "20s")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "15s")

	_, err := Load(noDotenv(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadDotenv(t *testing.T) {
	setTopics(t)
	t.Setenv("LOG_LEVEL", "warning")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nHTTP_ADDRESS=:9000\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("HTTP_ADDRESS") })

	cfg, err := Load(path)
	require.NoError(t, err)

	// Variables already in the environment win.
	assert.Equal(t, "warning", cfg.Logger.Level)
	assert.Equal(t, ":9000", cfg.HTTP.Address)
}

func TestLoadBadDuration(t *testing.T) {
	setTopics(t)
	t.Setenv("KAFKA_FLUSH_TIMEOUT", "soon")

	_, err := Load(noDotenv(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
