package util

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log severities; a logger drops entries below its level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a config value onto a level. Unknown names mean info.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// Field is one key=value pair attached to an entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogFormat selects how entries are rendered.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry is what an Output receives.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Output is a log destination.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LoggerInterface is the logging surface the rest of the module uses.
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
	WithContext(ctx context.Context) LoggerInterface
}

type contextKey string

// requestIDKey holds the X-Request-ID of the HTTP exchange a context serves.
const requestIDKey contextKey = "request_id"

// WithRequestID returns a context whose loggers tag entries with id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id stored by WithRequestID, if any.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// sinks is shared by a logger and every child derived from it.
type sinks struct {
	mu      sync.Mutex
	outputs []Output
}

// Logger writes leveled entries with bound fields to its outputs.
type Logger struct {
	level LogLevel
	bound []Field
	sinks *sinks
}

// NewLogger logs to logFile, and also to stderr when debugToConsole is set.
// It fails when neither destination is enabled.
func NewLogger(levelStr string, logFile string, debugToConsole bool) (*Logger, error) {
	if logFile == "" && !debugToConsole {
		return nil, fmt.Errorf("log file must be specified when not in debug mode")
	}

	var outputs []Output
	if debugToConsole {
		outputs = append(outputs, NewConsoleOutput(os.Stderr, FormatText))
	}
	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile, FormatText)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logFile, err)
		}
		outputs = append(outputs, fileOutput)
	}
	return newLogger(ParseLogLevel(levelStr), outputs...), nil
}

// NewWriterLogger logs to w only.
func NewWriterLogger(levelStr string, w io.Writer, format LogFormat) *Logger {
	return newLogger(ParseLogLevel(levelStr), NewConsoleOutput(w, format))
}

func newLogger(level LogLevel, outputs ...Output) *Logger {
	return &Logger{level: level, sinks: &sinks{outputs: outputs}}
}

func (l *Logger) emit(level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
	}
	if n := len(l.bound) + len(fields); n > 0 {
		entry.Fields = make(map[string]interface{}, n)
		for _, f := range l.bound {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()
	for _, out := range l.sinks.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.emit(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.emit(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.emit(LevelError, fmt.Sprintf(format, args...), nil)
}

// With returns a child logger that adds fields to every entry. The child
// shares the parent's outputs.
func (l *Logger) With(fields ...Field) LoggerInterface {
	bound := make([]Field, 0, len(l.bound)+len(fields))
	bound = append(bound, l.bound...)
	bound = append(bound, fields...)
	return &Logger{level: l.level, bound: bound, sinks: l.sinks}
}

// WithContext tags entries with the request id carried by ctx.
func (l *Logger) WithContext(ctx context.Context) LoggerInterface {
	if id, ok := RequestID(ctx); ok {
		return l.With(F(string(requestIDKey), id))
	}
	return l
}

// Close closes every output. Loggers derived with With stop writing too.
func (l *Logger) Close() error {
	l.sinks.mu.Lock()
	defer l.sinks.mu.Unlock()

	var firstErr error
	for _, out := range l.sinks.outputs {
		if err := out.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.sinks.outputs = nil
	return firstErr
}
