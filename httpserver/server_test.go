package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aalemi-dev/airflow-relay/emitter"
	"github.com/aalemi-dev/airflow-relay/encoder"
	"github.com/aalemi-dev/airflow-relay/kafka"
	"github.com/aalemi-dev/airflow-relay/logger"
	"github.com/aalemi-dev/airflow-relay/metrics"
	"github.com/aalemi-dev/airflow-relay/record"
	"github.com/aalemi-dev/airflow-relay/tracer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubPublisher struct {
	events []emitter.Event
	ctx    context.Context
	err    error
}

func (s *stubPublisher) Publish(ctx context.Context, ev emitter.Event) (*record.Record, error) {
	s.ctx = ctx
	s.events = append(s.events, ev)
	if s.err != nil {
		return nil, s.err
	}
	return record.Validate(ev.Kind, ev.Version, ev.Fields)
}

type memoryPublisher struct {
	messages []kafka.Message
	pending  int
}

func (m *memoryPublisher) Enqueue(_ context.Context, msg kafka.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}
func (m *memoryPublisher) Flush(time.Duration) int        { return m.pending }
func (m *memoryPublisher) TranslateError(err error) error { return err }
func (m *memoryPublisher) GracefulShutdown()              {}

func newTestRouter(t *testing.T, pub Publisher) (http.Handler, *observer.ObservedLogs, *metrics.Metrics) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.NewMetrics(metrics.Config{
		SystemMetricsAddress:      metrics.Ptr(""),
		ApplicationMetricsAddress: metrics.Ptr(""),
		ServiceName:               "airflow-relay",
	})
	return NewRouter(pub, logger.NewFromZap(zap.New(core), false), m, nil), logs, m
}

func dispatcherRouter(t *testing.T, kp *memoryPublisher) http.Handler {
	t.Helper()
	topics := make(map[record.ShapeID]string)
	for _, id := range record.ShapeIDs() {
		topics[id] = "airflow-" + id.Version.String() + "-" + id.Kind.String()
	}
	table, err := record.NewTopicTable(topics)
	require.NoError(t, err)
	d := emitter.New(emitter.Config{FlushTimeout: time.Second}, table, encoder.NewText(), kp)
	router, _, _ := newTestRouter(t, d)
	return router
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubPublisher{})
	w := do(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestLegacyDagRunFromQuery(t *testing.T) {
	kp := &memoryPublisher{}
	router := dispatcherRouter(t, kp)

	w := do(router, http.MethodPost,
		"/api/v1/airflow/events/dag_run?dag_id=pipeline_a&run_id=manual__1&run_type=manual&external_trigger=true", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "pipeline_a", body["dag_id"])
	assert.Equal(t, true, body["external_trigger"])
	assert.Contains(t, body, "conf")

	require.Len(t, kp.messages, 1)
	assert.Equal(t, "airflow-legacy-dag_run", kp.messages[0].Topic)
	assert.JSONEq(t, `{"dag_id":"pipeline_a"}`, string(kp.messages[0].Key))
	assert.Equal(t, w.Header().Get(requestIDHeader), kp.messages[0].Headers[requestIDHeader])
}

func TestLegacyTaskInstanceFromForm(t *testing.T) {
	kp := &memoryPublisher{}
	router := dispatcherRouter(t, kp)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/airflow/events/task_instance",
		strings.NewReader("dag_id=etl&task_id=load&run_id=r1&max_index=-1&try_number=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, kp.messages, 1)
	assert.JSONEq(t, `{"dag_id":"etl","task_id":"load"}`, string(kp.messages[0].Key))
}

func TestVersionedRoutes(t *testing.T) {
	for _, version := range []record.Version{record.V2, record.V3} {
		for _, kind := range record.Kinds {
			shape, err := record.Lookup(kind, version)
			require.NoError(t, err)

			t.Run(shape.ID.String(), func(t *testing.T) {
				kp := &memoryPublisher{}
				router := dispatcherRouter(t, kp)

				payload, err := json.Marshal(shape.Example())
				require.NoError(t, err)
				path := "/api/v1/airflow_" + version.String() + "/events/" + kind.String()

				w := do(router, http.MethodPost, path, string(payload))
				require.Equal(t, http.StatusOK, w.Code, w.Body.String())
				require.Len(t, kp.messages, 1)
				assert.Equal(t, "airflow-"+version.String()+"-"+kind.String(), kp.messages[0].Topic)
			})
		}
	}
}

func TestValidationErrorIs422(t *testing.T) {
	kp := &memoryPublisher{}
	router := dispatcherRouter(t, kp)

	w := do(router, http.MethodPost, "/api/v1/airflow/events/dag_run?run_id=r&run_type=manual", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"detail":[{"loc":["query","dag_id"],"msg":"field required","type":"value_error"}]}`, w.Body.String())
	assert.Empty(t, kp.messages)
}

func TestMalformedJSONIs422(t *testing.T) {
	pub := &stubPublisher{}
	router, _, _ := newTestRouter(t, pub)

	for _, body := range []string{"{not json", "[1,2]", "null"} {
		w := do(router, http.MethodPost, "/api/v1/airflow_v2/events/dag_run", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
	assert.Empty(t, pub.events)
}

func TestFlushTimeoutIs500(t *testing.T) {
	router := dispatcherRouter(t, &memoryPublisher{pending: 1})

	w := do(router, http.MethodPost,
		"/api/v1/airflow/events/dag_run?dag_id=d&run_id=r&run_type=manual", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Failed to flush messages to Kafka"}`, w.Body.String())
}

func TestDispatcherErrorsMapTo500(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"schema not found", &encoder.SchemaNotFoundError{Topic: "t", Err: record.ErrUnknownTopic}, "Schema not found for topic"},
		{"registration", &encoder.SchemaRegistrationError{Subject: "t-value", Err: assertErr("registry down")}, "Failed to register schema: registry down"},
		{"serialization", &encoder.SerializationError{Topic: "t", Err: assertErr("NaN")}, "Failed to serialize message: NaN"},
		{"publish", &emitter.PublishError{Topic: "t", Err: kafka.ErrWriterClosed}, "publish to t: writer closed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, logs, _ := newTestRouter(t, &stubPublisher{err: tt.err})
			w := do(router, http.MethodPost, "/api/v1/airflow/events/dag_run?dag_id=d", "")
			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body["detail"])

			failed := logs.FilterMessage("request failed").All()
			require.Len(t, failed, 1)
			assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
		})
	}
}

func TestRequestIDIsReused(t *testing.T) {
	pub := &stubPublisher{}
	router, logs, _ := newTestRouter(t, pub)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/airflow/events/dag_run?dag_id=d&run_id=r&run_type=manual", nil)
	req.Header.Set(requestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(requestIDHeader))
	require.Len(t, pub.events, 1)
	assert.Equal(t, "req-123", pub.events[0].Headers[requestIDHeader])

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()[requestIDKey])
}

func TestHTTPMetrics(t *testing.T) {
	router, _, m := newTestRouter(t, &stubPublisher{})
	do(router, http.MethodGet, "/health", "")
	do(router, http.MethodGet, "/nope", "")

	expected := `
# HELP airflow_relay_http_requests_total HTTP requests by route and status.
# TYPE airflow_relay_http_requests_total counter
airflow_relay_http_requests_total{method="GET",route="/health",service="airflow-relay",status="200"} 1
airflow_relay_http_requests_total{method="GET",route="unmatched",service="airflow-relay",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.ApplicationRegistry, strings.NewReader(expected), "airflow_relay_http_requests_total"))
}

func TestCORS(t *testing.T) {
	router, _, _ := newTestRouter(t, &stubPublisher{})
	h := NewHandler(Config{}, router)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/airflow_v2/events/dag_run", nil)
	req.Header.Set("Origin", "https://airflow.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "https://airflow.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestIncomingTraceIsContinued(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	pub := &stubPublisher{}
	tr := tracer.NewClientWithProvider(sdktrace.NewTracerProvider())
	router := NewRouter(pub, logger.NewNop(), nil, tr)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/airflow/events/dag_run?dag_id=d&run_id=r&run_type=manual", nil)
	req.Header.Set("traceparent", traceparent)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sc := trace.SpanContextFromContext(pub.ctx)
	require.True(t, sc.IsValid())
	assert.True(t, sc.IsRemote())
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", sc.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", sc.SpanID().String())

	// no header, no remote parent
	pub = &stubPublisher{}
	router = NewRouter(pub, logger.NewNop(), nil, tr)
	w = do(router, http.MethodPost, "/api/v1/airflow/events/dag_run?dag_id=d&run_id=r&run_type=manual", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, trace.SpanContextFromContext(pub.ctx).IsValid())
}

func TestNewServerDefaults(t *testing.T) {
	srv := NewServer(Config{}, http.NotFoundHandler())
	assert.Equal(t, DefaultAddress, srv.Addr)
	assert.Equal(t, DefaultReadHeaderTimeout, srv.ReadHeaderTimeout)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
