package util

import (
	"context"
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger initializes the global logger instance with debug mode support.
// Later calls replace the previous logger.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger installs l as the global logger. A nil l disables logging.
func SetLogger(l LoggerInterface) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	globalLogger = l
}

// Log returns the global logger, or a logger that drops everything when
// none is installed.
func Log() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if globalLogger == nil {
		return nopLogger{}
	}
	return globalLogger
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	Log().Info(msg)
}

func LogInfof(format string, args ...interface{}) {
	Log().Infof(format, args...)
}

func LogDebug(msg string) {
	Log().Debug(msg)
}

func LogDebugf(format string, args ...interface{}) {
	Log().Debugf(format, args...)
}

func LogError(msg string) {
	Log().Error(msg)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)                        {}
func (nopLogger) Debugf(string, ...interface{})                 {}
func (nopLogger) Info(string, ...Field)                         {}
func (nopLogger) Infof(string, ...interface{})                  {}
func (nopLogger) Warn(string, ...Field)                         {}
func (nopLogger) Warnf(string, ...interface{})                  {}
func (nopLogger) Error(string, ...Field)                        {}
func (nopLogger) Errorf(string, ...interface{})                 {}
func (n nopLogger) With(...Field) LoggerInterface               { return n }
func (n nopLogger) WithContext(context.Context) LoggerInterface { return n }
