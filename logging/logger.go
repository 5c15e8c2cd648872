package logging

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for agentgate.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewSlogLogger creates a Logger writing to stdout with the given level and
// format ("json" or "text").
func NewSlogLogger(level LogLevel, format string, addSource bool) Logger {
	return NewSlogLoggerTo(os.Stdout, level, format, addSource)
}

// NewSlogLoggerTo is NewSlogLogger with an explicit output writer.
func NewSlogLoggerTo(w io.Writer, level LogLevel, format string, addSource bool) Logger {
	opts := &slog.HandlerOptions{Level: slogLevel(level), AddSource: addSource}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return NewSlogAdapter(slog.New(handler))
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RunLogger decorates a Logger with run scoped identifiers and domain helpers.
// It is cheap to copy via the With* methods.
type RunLogger struct {
	logger         Logger
	conversationID string
	runID          string
}

// NewRunLogger wraps a Logger; a nil logger is substituted with NoOpLogger.
func NewRunLogger(l Logger) *RunLogger {
	if l == nil {
		l = NoOpLogger{}
	}
	return &RunLogger{logger: l}
}

// WithRun returns a copy carrying conversation and run identifiers attached
// to every entry.
func (l *RunLogger) WithRun(conversationID, runID string) *RunLogger {
	nl := *l
	nl.conversationID = conversationID
	nl.runID = runID
	return &nl
}

// Logger returns the underlying logger.
func (l *RunLogger) Logger() Logger { return l.logger }

func (l *RunLogger) attrs(args []any) []any {
	out := make([]any, 0, len(args)+4)
	if l.conversationID != "" {
		out = append(out, "conversation_id", l.conversationID)
	}
	if l.runID != "" {
		out = append(out, "run_id", l.runID)
	}
	return append(out, args...)
}

// Debug logs a debug message with run context.
func (l *RunLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, l.attrs(args)...) }

// Info logs an informational message with run context.
func (l *RunLogger) Info(msg string, args ...any) { l.logger.Info(msg, l.attrs(args)...) }

// Warn logs a warning message with run context.
func (l *RunLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, l.attrs(args)...) }

// Error logs an error message with run context.
func (l *RunLogger) Error(msg string, args ...any) { l.logger.Error(msg, l.attrs(args)...) }

// LogToolCall records execution details for a tool invocation.
func (l *RunLogger) LogToolCall(tool string, dur time.Duration, err error) {
	args := []any{"tool", tool, "duration_ms", dur.Milliseconds(), "success", err == nil}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("tool.call.failed", args...)
		return
	}
	l.Info("tool.call.completed", args...)
}

// LogModelTurn records latency and outcome for one model gateway turn.
func (l *RunLogger) LogModelTurn(model string, dur time.Duration, err error) {
	args := []any{"model", model, "duration_ms", dur.Milliseconds(), "success", err == nil}
	if err != nil {
		args = append(args, "error", err.Error())
		l.Error("model.turn.failed", args...)
		return
	}
	l.Info("model.turn.completed", args...)
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
