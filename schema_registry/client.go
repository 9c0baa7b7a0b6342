package schema_registry

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aalemi-dev/airflow-relay/observability"
)

const (
	// SchemaTypeAvro is the registry's default schema type.
	SchemaTypeAvro = "AVRO"

	contentType = "application/vnd.schemaregistry.v1+json"

	DefaultTimeout = 10 * time.Second
)

// Registry is the part of the schema registry API the relay uses.
type Registry interface {
	// RegisterSchema registers schema under subject, or returns the id of
	// an identical schema already registered there.
	RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error)

	// GetLatestSchema returns the newest version registered under subject.
	GetLatestSchema(ctx context.Context, subject string) (*Metadata, error)

	// CheckCompatibility asks whether schema could be registered under
	// subject without breaking its compatibility policy.
	CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error)
}

// Metadata describes one registered schema version.
type Metadata struct {
	ID      int    `json:"id"`
	Version int    `json:"version"`
	Schema  string `json:"schema"`
	Subject string `json:"subject"`
	Type    string `json:"schemaType,omitempty"`
}

// Config configures the registry client.
type Config struct {
	// URL is the registry base URL, e.g. "http://schema-registry:8081".
	URL string

	Username string
	Password string `json:"-"` //nolint:gosec

	// Timeout bounds every request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Logger is the subset of logger.Logger the client writes to.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Client implements Registry over the registry's REST API. Safe for
// concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string

	idCache      map[string]int
	idCacheMutex sync.RWMutex

	observer observability.Observer
	logger   Logger
}

// NewClient validates cfg and returns a client. No request is made.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid schema registry URL %q: %w", cfg.URL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		username:   cfg.Username,
		password:   cfg.Password,
		idCache:    make(map[string]int),
	}, nil
}

// WithObserver sets the operation observer and returns c.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// WithLogger sets the logger and returns c.
func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	return c
}

func cacheKey(subject, schemaType, schema string) string {
	return subject + ":" + schemaType + ":" + schema
}

// RegisterSchema implements Registry. Ids are cached, so only the first
// call per (subject, type, schema) reaches the registry.
func (c *Client) RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error) {
	start := time.Now()
	if schemaType == "" {
		schemaType = SchemaTypeAvro
	}

	key := cacheKey(subject, schemaType, schema)
	c.idCacheMutex.RLock()
	id, ok := c.idCache[key]
	c.idCacheMutex.RUnlock()
	if ok {
		c.observeOperation("register_schema", subject, strconv.Itoa(id), time.Since(start), nil, map[string]interface{}{
			"cache_hit": true,
		})
		return id, nil
	}

	var result struct {
		ID int `json:"id"`
	}
	path := "/subjects/" + url.PathEscape(subject) + "/versions"
	err := c.do(ctx, http.MethodPost, path, schemaPayload(schema, schemaType), &result)
	if err != nil {
		c.observeOperation("register_schema", subject, "", time.Since(start), err, map[string]interface{}{
			"cache_hit": false,
		})
		c.logError(ctx, "schema registration failed", err, map[string]interface{}{"subject": subject})
		return 0, fmt.Errorf("register schema for subject %s: %w", subject, err)
	}

	c.idCacheMutex.Lock()
	c.idCache[key] = result.ID
	c.idCacheMutex.Unlock()

	c.observeOperation("register_schema", subject, strconv.Itoa(result.ID), time.Since(start), nil, map[string]interface{}{
		"cache_hit": false,
	})
	c.logInfo(ctx, "schema registered", map[string]interface{}{"subject": subject, "schema_id": result.ID})
	return result.ID, nil
}

// GetLatestSchema implements Registry.
func (c *Client) GetLatestSchema(ctx context.Context, subject string) (*Metadata, error) {
	start := time.Now()

	var md Metadata
	path := "/subjects/" + url.PathEscape(subject) + "/versions/latest"
	if err := c.do(ctx, http.MethodGet, path, nil, &md); err != nil {
		c.observeOperation("get_latest_schema", subject, "latest", time.Since(start), err, nil)
		return nil, fmt.Errorf("get latest schema for subject %s: %w", subject, err)
	}
	md.Subject = subject

	c.observeOperation("get_latest_schema", subject, strconv.Itoa(md.Version), time.Since(start), nil, map[string]interface{}{
		"schema_id": md.ID,
	})
	return &md, nil
}

// CheckCompatibility implements Registry. A subject with no versions yet
// accepts any schema.
func (c *Client) CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error) {
	start := time.Now()
	if schemaType == "" {
		schemaType = SchemaTypeAvro
	}

	var result struct {
		IsCompatible bool `json:"is_compatible"`
	}
	path := "/compatibility/subjects/" + url.PathEscape(subject) + "/versions/latest"
	err := c.do(ctx, http.MethodPost, path, schemaPayload(schema, schemaType), &result)
	if err != nil {
		if isSubjectNotFound(err) {
			c.observeOperation("check_compatibility", subject, "latest", time.Since(start), nil, map[string]interface{}{
				"new_subject": true,
			})
			return true, nil
		}
		c.observeOperation("check_compatibility", subject, "latest", time.Since(start), err, nil)
		return false, fmt.Errorf("check compatibility for subject %s: %w", subject, err)
	}

	c.observeOperation("check_compatibility", subject, "latest", time.Since(start), nil, map[string]interface{}{
		"is_compatible": result.IsCompatible,
	})
	if !result.IsCompatible {
		c.logWarn(ctx, "schema is not compatible with the latest registered version", map[string]interface{}{"subject": subject})
	}
	return result.IsCompatible, nil
}

func schemaPayload(schema, schemaType string) map[string]interface{} {
	payload := map[string]interface{}{"schema": schema}
	if schemaType != SchemaTypeAvro {
		payload["schemaType"] = schemaType
	}
	return payload
}

// do sends one request and decodes a 200 body into out. Transport
// failures wrap ErrRegistryUnavailable, other statuses are *RegistryError.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", contentType)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		regErr := &RegistryError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		var parsed struct {
			ErrorCode int    `json:"error_code"`
			Message   string `json:"message"`
		}
		if json.Unmarshal(raw, &parsed) == nil && parsed.Message != "" {
			regErr.ErrorCode = parsed.ErrorCode
			regErr.Message = parsed.Message
		}
		return regErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func isSubjectNotFound(err error) bool {
	var regErr *RegistryError
	// 40401 subject not found, 40402 version not found
	return errors.As(err, &regErr) && regErr.StatusCode == http.StatusNotFound && (regErr.ErrorCode == 40401 || regErr.ErrorCode == 40402)
}

// EncodeSchemaID returns the five byte wire format header for schemaID.
func EncodeSchemaID(schemaID int) []byte {
	buf := make([]byte, 5, 64)
	buf[0] = 0x0
	binary.BigEndian.PutUint32(buf[1:5], uint32(schemaID)) //nolint:gosec
	return buf
}

// DecodeSchemaID splits a framed payload into schema id and body.
func DecodeSchemaID(data []byte) (int, []byte, error) {
	if len(data) < 5 {
		return 0, nil, fmt.Errorf("data too short: expected at least 5 bytes, got %d", len(data))
	}
	if data[0] != 0x0 {
		return 0, nil, fmt.Errorf("invalid magic byte: expected 0x0, got 0x%x", data[0])
	}
	return int(binary.BigEndian.Uint32(data[1:5])), data[5:], nil
}

func (c *Client) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (c *Client) logWarn(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.WarnWithContext(ctx, msg, nil, fields)
	}
}

func (c *Client) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
