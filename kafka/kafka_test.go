package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aalemi-dev/airflow-relay/observability"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// fakeWriter buffers messages until ack is called, the way an async
// kafka.Writer holds them until the broker answers.
type fakeWriter struct {
	mu       sync.Mutex
	buffered []kafka.Message
	written  []kafka.Message
	writeErr error
	closed   bool
	complete func([]kafka.Message, error)
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.buffered = append(f.buffered, msgs...)
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// ack completes every buffered message with err.
func (f *fakeWriter) ack(err error) {
	f.mu.Lock()
	batch := f.buffered
	f.buffered = nil
	f.mu.Unlock()

	for i := range batch {
		batch[i].Partition = 3
		batch[i].Offset = int64(i)
	}
	f.complete(batch, err)
}

type recordingDelivery struct {
	mu        sync.Mutex
	delivered []string
	failed    []error
}

func (r *recordingDelivery) Delivered(topic string, partition int, offset int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivered = append(r.delivered, fmt.Sprintf("%s/%d/%d", topic, partition, offset))
}

func (r *recordingDelivery) Failed(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func newTestClient() (*KafkaClient, *fakeWriter, *recordingDelivery, *observability.Recorder) {
	k := newClient(Config{Brokers: []string{"localhost:9092"}}.withDefaults())
	w := &fakeWriter{complete: k.complete}
	k.writer = w
	delivery := &recordingDelivery{}
	rec := &observability.Recorder{}
	k.WithDeliveryObserver(delivery).WithObserver(rec)
	return k, w, delivery, rec
}

func TestNewClient(t *testing.T) {
	t.Run("requires brokers", func(t *testing.T) {
		_, err := NewClient(context.Background(), Config{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects unknown compression", func(t *testing.T) {
		_, err := NewClient(context.Background(), Config{Brokers: []string{"b:9092"}, CompressionCodec: "brotli"})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("rejects unknown SASL mechanism", func(t *testing.T) {
		_, err := NewClient(context.Background(), Config{
			Brokers: []string{"b:9092"},
			SASL:    SASLConfig{Enabled: true, Mechanism: "GSSAPI"},
		})
		assert.Error(t, err)
	})

	t.Run("builds async writer with defaults", func(t *testing.T) {
		k, err := NewClient(context.Background(), Config{
			Brokers:          []string{"b1:9092", "b2:9092"},
			CompressionCodec: "zstd",
			SASL:             SASLConfig{Enabled: true, Mechanism: "SCRAM-SHA-512", Username: "u", Password: "p"},
		})
		require.NoError(t, err)

		w, ok := k.writer.(*kafka.Writer)
		require.True(t, ok)
		assert.True(t, w.Async)
		assert.NotNil(t, w.Completion)
		assert.Equal(t, kafka.RequireAll, w.RequiredAcks)
		assert.Equal(t, kafka.Zstd, w.Compression)
		assert.Equal(t, DefaultBatchTimeout, w.BatchTimeout)

		transport, ok := w.Transport.(*kafka.Transport)
		require.True(t, ok)
		assert.NotNil(t, transport.SASL)
		assert.Nil(t, transport.TLS)
	})
}

func TestCreateTLSConfig(t *testing.T) {
	cfg, err := createTLSConfig(TLSConfig{Enabled: true, InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.True(t, cfg.InsecureSkipVerify)

	_, err = createTLSConfig(TLSConfig{Enabled: true, CACertPath: "/does/not/exist.pem"})
	assert.Error(t, err)
}

func TestEnqueueCarriesMessage(t *testing.T) {
	k, w, _, rec := newTestClient()

	err := k.Enqueue(context.Background(), Message{
		Topic:   "airflow.dag_run",
		Key:     []byte("k"),
		Value:   []byte("value"),
		Headers: map[string]string{"b": "2", "a": "1"},
	})
	require.NoError(t, err)

	require.Len(t, w.written, 1)
	msg := w.written[0]
	assert.Equal(t, "airflow.dag_run", msg.Topic)
	assert.Equal(t, []byte("k"), msg.Key)
	assert.Equal(t, []byte("value"), msg.Value)
	assert.Equal(t, []kafka.Header{{Key: "a", Value: []byte("1")}, {Key: "b", Value: []byte("2")}}, msg.Headers)
	assert.Equal(t, 1, k.Pending())

	events := rec.Find("kafka", "enqueue")
	require.Len(t, events, 1)
	assert.Equal(t, int64(5), events[0].Size)
	assert.NoError(t, events[0].Error)
}

func TestEnqueueIgnoresCanceledContext(t *testing.T) {
	k, w, _, _ := newTestClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, k.Enqueue(ctx, Message{Topic: "t", Value: []byte("v")}))
	assert.Len(t, w.written, 1)
}

func TestEnqueueWriteFailure(t *testing.T) {
	k, w, _, rec := newTestClient()
	w.writeErr = errors.New("kafka: write on closed writer: connection closed")

	err := k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("v")})
	require.ErrorIs(t, err, ErrConnectionLost)
	assert.Equal(t, 0, k.Pending(), "a message that was not admitted is not pending")

	events := rec.Find("kafka", "enqueue")
	require.Len(t, events, 1)
	assert.Equal(t, true, events[0].Metadata["retryable"])
	assert.Equal(t, false, events[0].Metadata["permanent"])
}

func TestFlushReturnsZeroOnceAcknowledged(t *testing.T) {
	k, w, delivery, rec := newTestClient()
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("v")}))

	go func() {
		time.Sleep(20 * time.Millisecond)
		w.ack(nil)
	}()

	assert.Equal(t, 0, k.Flush(5*time.Second))
	assert.Equal(t, []string{"t/3/0"}, delivery.delivered)

	deliveries := rec.Find("kafka", "deliver")
	require.Len(t, deliveries, 1)
	assert.Equal(t, "3", deliveries[0].SubResource)
}

func TestFlushWithNothingPending(t *testing.T) {
	k, _, _, _ := newTestClient()
	start := time.Now()
	assert.Equal(t, 0, k.Flush(time.Second))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestFlushTimesOut(t *testing.T) {
	k, _, _, rec := newTestClient()
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("a")}))
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("b")}))

	start := time.Now()
	pending := k.Flush(100 * time.Millisecond)
	elapsed := time.Since(start)

	assert.Equal(t, 2, pending)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)

	flushes := rec.Find("kafka", "flush")
	require.Len(t, flushes, 1)
	assert.Equal(t, int64(2), flushes[0].Size)
	assert.ErrorIs(t, flushes[0].Error, ErrRequestTimedOut)
}

func TestFlushIgnoresLaterMessages(t *testing.T) {
	k, w, _, _ := newTestClient()
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("mine")}))
	w.ack(nil)
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("someone else's")}))

	k.mu.Lock()
	pending := k.pendingUpTo(1)
	k.mu.Unlock()

	assert.Equal(t, 0, pending, "a flush that began after the first message only waits for it")
	assert.Equal(t, 1, k.Pending())
}

func TestDeliveryFailureIsTranslatedAndSettled(t *testing.T) {
	k, w, delivery, _ := newTestClient()
	require.NoError(t, k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("v")}))

	w.ack(errors.New("[3] Unknown Topic Or Partition: the request is for a topic or partition that does not exist"))

	assert.Equal(t, 0, k.Flush(time.Second), "a failed message is no longer outstanding")
	require.Len(t, delivery.failed, 1)
	assert.ErrorIs(t, delivery.failed[0], ErrTopicNotFound)
	assert.True(t, k.IsPermanentError(delivery.failed[0]))
}

func TestGracefulShutdown(t *testing.T) {
	k, w, _, _ := newTestClient()
	k.GracefulShutdown()
	k.GracefulShutdown()

	assert.True(t, w.closed)
	err := k.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrWriterClosed)
}

func TestEnqueueWithoutWriter(t *testing.T) {
	k := newClient(Config{})
	err := k.Enqueue(context.Background(), Message{Topic: "t"})
	assert.ErrorIs(t, err, ErrWriterNotInitialized)
}

func TestTranslateError(t *testing.T) {
	k := newClient(Config{})
	tests := []struct {
		msg  string
		want error
	}{
		{"dial tcp 127.0.0.1:9092: connect: connection refused", ErrConnectionFailed},
		{"SASL Authentication Failed", ErrAuthenticationFailed},
		{"[10] Message Size Too Large", ErrMessageTooLarge},
		{"[19] Not Enough Replicas", ErrNotEnoughReplicas},
		{"[7] Request Timed Out", ErrRequestTimedOut},
		{"[5] Leader Not Available", ErrLeaderNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.ErrorIs(t, k.TranslateError(errors.New(tt.msg)), tt.want)
		})
	}

	assert.Nil(t, k.TranslateError(nil))
	other := errors.New("something else")
	assert.Equal(t, other, k.TranslateError(other))
	assert.True(t, k.IsRetryableError(ErrNotEnoughReplicas))
	assert.True(t, k.IsAuthenticationError(ErrAuthorizationFailed))
}

func TestFXModule(t *testing.T) {
	var publisher Publisher
	app := fxtest.New(t,
		FXModule,
		fx.Provide(func() Config { return Config{Brokers: []string{"localhost:9092"}} }),
		fx.Populate(&publisher),
	)
	app.RequireStart()
	require.NotNil(t, publisher)
	app.RequireStop()

	err := publisher.Enqueue(context.Background(), Message{Topic: "t", Value: []byte("v")})
	assert.ErrorIs(t, err, ErrWriterClosed)
}
