package logger

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// extractTracingFields returns trace_id and span_id for the recording span
// in ctx, or nil when tracing is disabled or no span is active.
func (l *LoggerClient) extractTracingFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}

	sc := span.SpanContext()
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// convertToZapFields flattens err and the field maps into zap fields.
// Keys of each map are emitted in sorted order; later maps win on duplicates.
func (l *LoggerClient) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	merged := make(map[string]interface{})
	for _, m := range fields {
		for k, v := range m {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	zapFields := make([]zap.Field, 0, len(keys)+1)
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for _, k := range keys {
		zapFields = append(zapFields, zap.Any(k, merged[k]))
	}
	return zapFields
}

func (l *LoggerClient) write(ctx context.Context, level zapcore.Level, msg string, err error, fields ...map[string]interface{}) {
	ce := l.Zap.Check(level, msg)
	if ce == nil {
		return
	}
	zapFields := l.convertToZapFields(err, fields...)
	zapFields = append(zapFields, l.extractTracingFields(ctx)...)
	ce.Write(zapFields...)
}

// Debug logs at debug level.
func (l *LoggerClient) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zapcore.DebugLevel, msg, err, fields...)
}

// Info logs at info level.
//
//	log.Info("relay started", nil, map[string]interface{}{"addr": ":8000"})
func (l *LoggerClient) Info(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zapcore.InfoLevel, msg, err, fields...)
}

// Warn logs at warn level.
func (l *LoggerClient) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zapcore.WarnLevel, msg, err, fields...)
}

// Error logs at error level.
func (l *LoggerClient) Error(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zapcore.ErrorLevel, msg, err, fields...)
}

// Fatal logs at fatal level and exits the process.
func (l *LoggerClient) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zapcore.FatalLevel, msg, err, fields...)
}

// DebugWithContext logs at debug level with trace correlation.
func (l *LoggerClient) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.DebugLevel, msg, err, fields...)
}

// InfoWithContext logs at info level with trace correlation.
func (l *LoggerClient) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.InfoLevel, msg, err, fields...)
}

// WarnWithContext logs at warn level with trace correlation.
func (l *LoggerClient) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.WarnLevel, msg, err, fields...)
}

// ErrorWithContext logs at error level with trace correlation.
//
//	log.ErrorWithContext(ctx, "flush timed out", err, map[string]interface{}{"pending": 1})
func (l *LoggerClient) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zapcore.ErrorLevel, msg, err, fields...)
}
