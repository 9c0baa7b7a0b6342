package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerClient wraps a zap.Logger with the map-based field API used across
// the relay. It implements Logger.
type LoggerClient struct {
	// Zap is exposed for code that needs zap directly, such as the fx event
	// logger.
	Zap *zap.Logger

	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger writing to stderr with ISO8601
// timestamps, capitalized levels and the pid/service fields attached.
func NewLoggerClient(cfg Config) (*LoggerClient, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	encoding := "json"
	if cfg.Development {
		encoding = "console"
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	callerSkip := cfg.CallerSkip
	if callerSkip <= 0 {
		callerSkip = 1
	}
	// every public method goes through write
	callerSkip++

	zl, err := zapCfg.Build(zap.AddCaller(), zap.AddCallerSkip(callerSkip))
	if err != nil {
		return nil, fmt.Errorf("logger: build zap logger: %w", err)
	}

	return &LoggerClient{Zap: zl, tracingEnabled: cfg.EnableTracing}, nil
}

// NewFromZap wraps an existing zap logger, typically one backed by
// zaptest/observer in tests.
func NewFromZap(zl *zap.Logger, tracingEnabled bool) *LoggerClient {
	return &LoggerClient{Zap: zl, tracingEnabled: tracingEnabled}
}

// NewNop returns a logger that discards everything.
func NewNop() *LoggerClient {
	return &LoggerClient{Zap: zap.NewNop()}
}

// With returns a child logger with fields attached to every entry.
func (l *LoggerClient) With(fields map[string]interface{}) *LoggerClient {
	return &LoggerClient{
		Zap:            l.Zap.With(l.convertToZapFields(nil, fields)...),
		tracingEnabled: l.tracingEnabled,
	}
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case Debug:
		return zap.DebugLevel
	case Warning, "warn":
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
