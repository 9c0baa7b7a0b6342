package logger

// Log levels accepted by Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the relay's structured logger.
type Config struct {
	// Level is the minimum level written. Unknown values fall back to "info".
	// "warn" is accepted as an alias of "warning".
	Level string

	// EnableTracing adds trace_id and span_id to entries logged with a
	// context that carries a recording span.
	EnableTracing bool

	// ServiceName populates the "service" field of every entry.
	ServiceName string

	// CallerSkip is the number of wrapper frames between the call site and zap.
	// Zero means 1, which is right for direct calls on *LoggerClient.
	CallerSkip int

	// Development switches to the console encoder with colored levels.
	Development bool
}
