// Package logger is the structured logging facade used across the backend.
// Call sites depend on Logger only; the slog or zap backend is picked by
// configuration at startup.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Level represents log severity levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "info"
}

// ParseLevel maps a case-insensitive level name to a Level. Unknown names
// fall back to info.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for level, name := range levelNames {
		if name == s {
			return level
		}
	}
	return LevelInfo
}

// Field is one structured key/value pair
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{Key: key, Value: value} }
func Int(key string, value int) Field                { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field        { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field              { return Field{Key: key, Value: value} }
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }
func Any(key string, value any) Field                { return Field{Key: key, Value: value} }

// Err records err under "error" as its message string
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger is implemented by the slog and zap backends
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a Logger that adds fields to every entry
	With(fields ...Field) Logger
	// WithContext adds the request_id, user_id and entry_id stored in ctx
	WithContext(ctx context.Context) Logger

	Level() Level
}

// Backend names accepted by New
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Config holds logging configuration
type Config struct {
	Level Level
	// Format is "json" (default) or "text"
	Format string
	// Backend is "slog" (default) or "zap"
	Backend   string
	AddSource bool
	// Output defaults to stdout
	Output io.Writer
}

func (c Config) output() io.Writer {
	if c.Output == nil {
		return os.Stdout
	}
	return c.Output
}

// New creates a Logger for the configured backend
func New(cfg Config) (Logger, error) {
	switch cfg.Backend {
	case "", BackendSlog:
		return NewSlogLogger(cfg), nil
	case BackendZap:
		return NewZapLogger(cfg)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}
}

type holder struct{ Logger }

var defaultLogger atomic.Pointer[holder]

// SetDefault replaces the process-wide logger returned by Default
func SetDefault(l Logger) {
	defaultLogger.Store(&holder{l})
}

// Default returns the process-wide logger, a JSON slog logger at info level
// until SetDefault is called
func Default() Logger {
	if h := defaultLogger.Load(); h != nil {
		return h.Logger
	}
	l := NewSlogLogger(Config{Level: LevelInfo, Format: "json"})
	defaultLogger.CompareAndSwap(nil, &holder{l})
	return defaultLogger.Load().Logger
}
