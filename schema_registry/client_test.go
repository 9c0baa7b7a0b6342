package schema_registry

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/aalemi-dev/airflow-relay/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{"type":"record","name":"key","fields":[{"name":"dag_id","type":"string"}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observability.Recorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL, Username: "u", Password: "p"})
	require.NoError(t, err)

	rec := &observability.Recorder{}
	return client.WithObserver(rec), rec
}

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{URL: "not a url"})
	require.Error(t, err)

	c, err := NewClient(Config{URL: "http://registry:8081/"})
	require.NoError(t, err)
	assert.Equal(t, "http://registry:8081", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestRegisterSchemaCachesID(t *testing.T) {
	var calls int32
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/subjects/airflow.dag_run-value/versions", r.URL.Path)
		assert.Equal(t, contentType, r.Header.Get("Content-Type"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "u", user)
		assert.Equal(t, "p", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, testSchema, body["schema"])
		_, hasType := body["schemaType"]
		assert.False(t, hasType, "AVRO is the registry default and is omitted")

		_, _ = w.Write([]byte(`{"id":42}`))
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		id, err := client.RegisterSchema(ctx, "airflow.dag_run-value", testSchema, "")
		require.NoError(t, err)
		assert.Equal(t, 42, id)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	events := rec.Find("schema_registry", "register_schema")
	require.Len(t, events, 3)
	assert.Equal(t, false, events[0].Metadata["cache_hit"])
	assert.Equal(t, true, events[2].Metadata["cache_hit"])
	assert.Equal(t, "42", events[2].SubResource)
}

func TestRegisterSchemaClassifiesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"incompatible", http.StatusConflict, `{"error_code":409,"message":"incompatible"}`, ErrIncompatibleSchema},
		{"invalid", http.StatusUnprocessableEntity, `{"error_code":42201,"message":"bad schema"}`, ErrInvalidSchema},
		{"unauthorized", http.StatusUnauthorized, `{"error_code":401,"message":"nope"}`, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, `boom`, ErrRegistryUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.RegisterSchema(context.Background(), "t-value", testSchema, SchemaTypeAvro)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var regErr *RegistryError
			require.True(t, errors.As(err, &regErr))
			assert.Equal(t, tt.status, regErr.StatusCode)

			events := rec.Find("schema_registry", "register_schema")
			require.Len(t, events, 1)
			assert.Error(t, events[0].Error)
		})
	}
}

func TestRegisterSchemaFailureIsNotCached(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id":7}`))
	})

	_, err := client.RegisterSchema(context.Background(), "t-key", testSchema, "")
	require.ErrorIs(t, err, ErrRegistryUnavailable)

	id, err := client.RegisterSchema(context.Background(), "t-key", testSchema, "")
	require.NoError(t, err)
	assert.Equal(t, 7, id)
}

func TestRegisterSchemaUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, err := NewClient(Config{URL: url})
	require.NoError(t, err)

	_, err = client.RegisterSchema(context.Background(), "t-value", testSchema, "")
	require.ErrorIs(t, err, ErrRegistryUnavailable)
}

func TestSubjectIsPathEscaped(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subjects/odd%2Ftopic-value/versions", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	_, err := client.RegisterSchema(context.Background(), "odd/topic-value", testSchema, "")
	require.NoError(t, err)
}

func TestGetLatestSchema(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/subjects/t-value/versions/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":3,"version":2,"schema":"\"string\""}`))
	})

	md, err := client.GetLatestSchema(context.Background(), "t-value")
	require.NoError(t, err)
	assert.Equal(t, &Metadata{ID: 3, Version: 2, Schema: `"string"`, Subject: "t-value"}, md)
}

func TestGetLatestSchemaNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error_code":40401,"message":"Subject not found."}`))
	})

	_, err := client.GetLatestSchema(context.Background(), "t-value")
	require.ErrorIs(t, err, ErrSubjectNotFound)
}

func TestCheckCompatibility(t *testing.T) {
	t.Run("compatible", func(t *testing.T) {
		client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/compatibility/subjects/t-value/versions/latest", r.URL.Path)
			_, _ = w.Write([]byte(`{"is_compatible":true}`))
		})
		ok, err := client.CheckCompatibility(context.Background(), "t-value", testSchema, "")
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, rec.Find("schema_registry", "check_compatibility"), 1)
	})

	t.Run("incompatible", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"is_compatible":false}`))
		})
		ok, err := client.CheckCompatibility(context.Background(), "t-value", testSchema, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("new subject", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":40401,"message":"Subject not found."}`))
		})
		ok, err := client.CheckCompatibility(context.Background(), "t-value", testSchema, "")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestSchemaIDFraming(t *testing.T) {
	framed := append(EncodeSchemaID(0x01020304), 0xAA)
	assert.Equal(t, []byte{0x0, 0x1, 0x2, 0x3, 0x4, 0xAA}, framed)

	id, body, err := DecodeSchemaID(framed)
	require.NoError(t, err)
	assert.Equal(t, 0x01020304, id)
	assert.Equal(t, []byte{0xAA}, body)

	_, _, err = DecodeSchemaID([]byte{0x0, 0x1})
	assert.Error(t, err)
	_, _, err = DecodeSchemaID([]byte{0x1, 0, 0, 0, 1})
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "airflow.task_instance-key", Subject("airflow.task_instance", RoleKey))
	assert.Equal(t, "airflow.task_instance-value", Subject("airflow.task_instance", RoleValue))
}
