package httpserver

import "time"

// Config configures the HTTP listener.
type Config struct {
	// Address is the listen address, e.g. ":8000".
	Address string

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10s
	ReadHeaderTimeout time.Duration

	// RequestTimeout bounds a whole request. It must exceed the flush
	// timeout or slow acknowledgments surface as dropped connections.
	// Default: 30s
	RequestTimeout time.Duration

	// AllowedOrigins for CORS. Empty allows every origin.
	AllowedOrigins []string
}

const (
	DefaultAddress           = ":8000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	return c
}
