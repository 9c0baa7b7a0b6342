package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/aalemi-dev/airflow-relay/observability"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/aws_msk_iam_v2"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// messageWriter is the part of *kafka.Writer the client drives.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClient is the relay's shared producer. It is safe for concurrent
// use and implements Publisher.
type KafkaClient struct {
	cfg Config

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// logger provides optional logging for lifecycle and background operations
	logger Logger

	// delivery receives per-message outcomes
	delivery DeliveryObserver

	writer messageWriter

	// mu guards seq, outstanding and changed
	mu          sync.Mutex
	seq         uint64
	outstanding map[uint64]struct{}
	// changed is closed and replaced whenever a message completes
	changed chan struct{}

	closed    bool
	closeOnce sync.Once
}

// NewClient creates a KafkaClient with an asynchronous writer. No broker
// connection is opened until the first message is written.
//
// Example:
//
//	client, err := kafka.NewClient(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
func NewClient(ctx context.Context, cfg Config) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: at least one broker is required", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()

	transport, err := createTransport(ctx, cfg)
	if err != nil {
		return nil, err
	}
	compression, err := compressionCodec(cfg.CompressionCodec)
	if err != nil {
		return nil, err
	}

	k := newClient(cfg)
	k.writer = &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.CRC32Balancer{},
		MaxAttempts:            cfg.MaxAttempts,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		Async:                  true,
		Completion:             k.complete,
		Compression:            compression,
		Transport:              transport,
		AllowAutoTopicCreation: cfg.AllowAutoTopicCreation,
		ErrorLogger:            createErrorLogger(k),
	}
	return k, nil
}

func newClient(cfg Config) *KafkaClient {
	return &KafkaClient{
		cfg:         cfg,
		outstanding: make(map[uint64]struct{}),
		changed:     make(chan struct{}),
	}
}

// WithObserver attaches an observer and returns k.
func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// WithLogger attaches a logger and returns k.
func (k *KafkaClient) WithLogger(logger Logger) *KafkaClient {
	k.logger = logger
	return k
}

// WithDeliveryObserver attaches a delivery observer and returns k.
func (k *KafkaClient) WithDeliveryObserver(observer DeliveryObserver) *KafkaClient {
	k.delivery = observer
	return k
}

// Enqueue implements Publisher. The write is detached from ctx
// cancellation so an abandoned request does not abort admission.
func (k *KafkaClient) Enqueue(ctx context.Context, msg Message) error {
	start := time.Now()

	if k.writer == nil {
		return ErrWriterNotInitialized
	}

	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return ErrWriterClosed
	}
	k.seq++
	seq := k.seq
	k.outstanding[seq] = struct{}{}
	k.mu.Unlock()

	err := k.writer.WriteMessages(context.WithoutCancel(ctx), kafka.Message{
		Topic:      msg.Topic,
		Key:        msg.Key,
		Value:      msg.Value,
		Headers:    toKafkaHeaders(msg.Headers),
		WriterData: seq,
	})
	if err != nil {
		k.settle(seq)
		err = fmt.Errorf("enqueue to %s: %w", msg.Topic, k.TranslateError(err))
	}

	k.observeOperation("enqueue", msg.Topic, "", time.Since(start), err, int64(len(msg.Value)))
	return err
}

// Flush implements Publisher. Messages enqueued by other callers after
// Flush starts are not waited for.
func (k *KafkaClient) Flush(timeout time.Duration) int {
	start := time.Now()

	k.mu.Lock()
	target := k.seq
	k.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		k.mu.Lock()
		pending := k.pendingUpTo(target)
		changed := k.changed
		k.mu.Unlock()

		if pending == 0 {
			k.observeOperation("flush", "", "", time.Since(start), nil, 0)
			return 0
		}

		select {
		case <-changed:
		case <-timer.C:
			k.mu.Lock()
			pending = k.pendingUpTo(target)
			k.mu.Unlock()
			var err error
			if pending > 0 {
				err = fmt.Errorf("%w: %d messages outstanding after %s", ErrRequestTimedOut, pending, timeout)
			}
			k.observeOperation("flush", "", "", time.Since(start), err, int64(pending))
			return pending
		}
	}
}

// pendingUpTo counts outstanding messages with a sequence number no
// greater than target. Callers hold mu.
func (k *KafkaClient) pendingUpTo(target uint64) int {
	n := 0
	for seq := range k.outstanding {
		if seq <= target {
			n++
		}
	}
	return n
}

// Pending returns the number of admitted messages not yet completed.
func (k *KafkaClient) Pending() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.outstanding)
}

func (k *KafkaClient) settle(seqs ...uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, seq := range seqs {
		delete(k.outstanding, seq)
	}
	close(k.changed)
	k.changed = make(chan struct{})
}

// complete is the writer's completion callback. It runs on the writer's
// background goroutine, once per batch. Observers see the outcome before
// Flush does.
func (k *KafkaClient) complete(messages []kafka.Message, err error) {
	seqs := lo.FilterMap(messages, func(m kafka.Message, _ int) (uint64, bool) {
		seq, ok := m.WriterData.(uint64)
		return seq, ok
	})
	defer k.settle(seqs...)

	if err != nil {
		translated := k.TranslateError(err)
		for _, m := range messages {
			if k.delivery != nil {
				k.delivery.Failed(m.Topic, translated)
			} else {
				// nobody else reports it
				k.logError(context.Background(), "message delivery failed", translated, map[string]interface{}{
					"topic":     m.Topic,
					"retryable": k.IsRetryableError(translated),
					"auth":      k.IsAuthenticationError(translated),
				})
			}
			k.observeOperation("deliver", m.Topic, "", 0, translated, int64(len(m.Value)))
		}
		return
	}
	for _, m := range messages {
		if k.delivery != nil {
			k.delivery.Delivered(m.Topic, m.Partition, m.Offset)
		}
		k.observeOperation("deliver", m.Topic, strconv.Itoa(m.Partition), 0, nil, int64(len(m.Value)))
	}
}

// GracefulShutdown implements Publisher. Closing the writer flushes any
// buffered batches first.
func (k *KafkaClient) GracefulShutdown() {
	k.closeOnce.Do(func() {
		k.mu.Lock()
		k.closed = true
		k.mu.Unlock()

		if k.writer == nil {
			return
		}
		if err := k.writer.Close(); err != nil {
			k.logWarn(context.Background(), "failed to close kafka writer", map[string]interface{}{
				"error": err.Error(),
			})
			return
		}
		k.logInfo(context.Background(), "kafka writer closed", nil)
	})
}

func toKafkaHeaders(headers map[string]string) []kafka.Header {
	if len(headers) == 0 {
		return nil
	}
	keys := lo.Keys(headers)
	sort.Strings(keys)
	return lo.Map(keys, func(key string, _ int) kafka.Header {
		return kafka.Header{Key: key, Value: []byte(headers[key])}
	})
}

func (k *KafkaClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (k *KafkaClient) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}

func (k *KafkaClient) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.WarnWithContext(ctx, msg, nil, fields)
	}
}

// createErrorLogger routes the writer's internal errors to the client's
// logger, or drops them when none is set.
func createErrorLogger(client *KafkaClient) kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		if client.logger == nil {
			return
		}
		client.logger.ErrorWithContext(context.Background(), "kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
		})
	}
}

func compressionCodec(name string) (kafka.Compression, error) {
	switch name {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafka.Gzip, nil
	case "snappy":
		return kafka.Snappy, nil
	case "lz4":
		return kafka.Lz4, nil
	case "zstd":
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("%w: unsupported compression codec %q", ErrInvalidConfig, name)
	}
}

// createTransport builds the writer transport. MSK IAM implies TLS.
func createTransport(ctx context.Context, cfg Config) (*kafka.Transport, error) {
	transport := &kafka.Transport{ClientID: cfg.ClientID}

	if cfg.TLS.Enabled || cfg.MSK.Enabled() {
		tlsConfig, err := createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		transport.TLS = tlsConfig
	}

	switch {
	case cfg.MSK.Enabled():
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.MSK.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config for MSK IAM: %w", err)
		}
		transport.SASL = aws_msk_iam_v2.NewMechanism(awsCfg)
	case cfg.SASL.Enabled:
		mechanism, err := createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
		transport.SASL = mechanism
	}
	return transport, nil
}

// createTLSConfig creates a TLS configuration from the provided config
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// createSASLMechanism creates a SASL mechanism from the provided config
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
