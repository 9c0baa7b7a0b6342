package kafka

import (
	"context"
	"time"
)

// Config defines the configuration of the relay's Kafka producer. One
// producer serves every topic, so no topic is configured here.
type Config struct {
	// Brokers is a list of Kafka broker addresses
	Brokers []string

	// ClientID identifies the producer to the brokers
	ClientID string

	// RequiredAcks determines how many replica acknowledgments to wait for
	// Options: RequireNone (0), RequireOne (1), RequireAll (-1)
	// Default: RequireAll (-1)
	RequiredAcks int

	// WriteTimeout bounds a single produce request
	// Default: 10s
	WriteTimeout time.Duration

	// BatchSize is the maximum number of messages batched per partition
	// Default: 100
	BatchSize int

	// BatchTimeout is the maximum time a message waits for its batch to fill.
	// Kept short because every publish is followed by a flush.
	// Default: 10ms
	BatchTimeout time.Duration

	// CompressionCodec is one of "", "gzip", "snappy", "lz4", "zstd"
	CompressionCodec string

	// MaxAttempts is the maximum number of attempts to deliver a message
	// Default: 10
	MaxAttempts int

	// AllowAutoTopicCreation lets the brokers create missing topics
	AllowAutoTopicCreation bool

	// TLS contains TLS/SSL configuration
	TLS TLSConfig

	// SASL contains SASL authentication configuration
	SASL SASLConfig

	// MSK contains AWS MSK IAM configuration. It takes precedence over SASL.
	MSK MSKConfig
}

// Logger is the subset of logger.Logger the producer writes to.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool

	// CACertPath is the file path to the CA certificate for verifying the broker
	CACertPath string

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string

	// InsecureSkipVerify controls whether to skip verification of the server's certificate
	// WARNING: Setting this to true is insecure and should only be used in testing
	InsecureSkipVerify bool
}

// SASLConfig contains SASL authentication configuration parameters.
type SASLConfig struct {
	// Enabled determines whether to use SASL authentication
	Enabled bool

	// Mechanism specifies the SASL mechanism to use
	// Options: "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512"
	Mechanism string

	// Username is the SASL username
	Username string

	// Password is the SASL password
	Password string //nolint:gosec
}

// MSKConfig enables AWS MSK IAM authentication when Region is set.
// Credentials come from the default AWS credential chain.
type MSKConfig struct {
	Region string
}

// Enabled reports whether MSK IAM authentication is configured.
func (c MSKConfig) Enabled() bool {
	return c.Region != ""
}

// Default values for configuration
const (
	DefaultRequiredAcks = -1 // WaitForAll
	DefaultBatchSize    = 100
	DefaultBatchTimeout = 10 * time.Millisecond
	DefaultMaxAttempts  = 10
	DefaultWriteTimeout = 10 * time.Second

	// Producer acknowledgment modes
	RequireNone = 0  // Fire-and-forget (no acknowledgment)
	RequireOne  = 1  // Wait for leader only
	RequireAll  = -1 // Wait for all in-sync replicas (most durable)
)

func (cfg Config) withDefaults() Config {
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = DefaultRequiredAcks
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	return cfg
}
