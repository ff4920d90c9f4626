package telemetry

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Init builds the process logger. Production uses the JSON encoder, every
// other environment the console encoder.
func Init(env, level string) error {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the process logger; tests pass zaptest or observer loggers.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Logger returns the process logger.
func Logger() *zap.Logger {
	return current.Load()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current.Load().Sync()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	current.Load().Info(msg, toZapFields(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	current.Load().Warn(msg, toZapFields(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	current.Load().Error(msg, toZapFields(fields)...)
}

func toZapFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}

func parseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
