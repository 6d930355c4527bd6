// Package logger provides a simple logging interface for hoststat components.
// It allows the supervisor and the worker processes to log debug, info, warn,
// and error messages without being coupled to a specific logging implementation.
//
// Log output always goes to stderr so it never interleaves with the report
// written to stdout.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug logging.
// It is inherited by worker processes, so one setting covers the whole run.
const DebugEnv = "HOSTSTAT_DEBUG"

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// base is the shared logrus instance behind every env logger.
var base = newBase(os.Stderr)

func newBase(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		DisableQuote:     true,
		DisableColors:    true,
	})
	l.SetLevel(logrus.DebugLevel)
	return l
}

// SetOutput redirects all env loggers to w. Used by tests and by the CLI
// when it needs logs out of the way of a full-screen dashboard.
func SetOutput(w io.Writer) {
	base.SetOutput(w)
}

// envLogger implements Logger on top of logrus.
// Debug messages are only emitted when HOSTSTAT_DEBUG is set.
type envLogger struct {
	prefix string
	entry  *logrus.Entry
}

// NewEnvLogger creates a logger that respects the HOSTSTAT_DEBUG environment variable.
// The prefix is prepended to all log messages (e.g., "[supervisor]" or "[worker:cpu]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{
		prefix: prefix,
		entry:  logrus.NewEntry(base).WithField("pid", os.Getpid()),
	}
}

func (l *envLogger) line(format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return msg
	}
	return l.prefix + " " + msg
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv(DebugEnv) != "" {
		l.entry.Debug(l.line(format, args...))
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	l.entry.Info(l.line(format, args...))
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	l.entry.Warn(l.line(format, args...))
}

func (l *envLogger) Error(format string, args ...interface{}) {
	l.entry.Error(l.line(format, args...))
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
// It is not safe for concurrent use; the supervisor only logs from its Run goroutine.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger = NewEnvLogger("")

// Default returns the default logger for the package.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}
