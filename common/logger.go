package common

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// Logger is the logging surface injected into engine packages.
// Implementations must be safe for concurrent use.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// NoOpLogger discards everything. It is the default for every package that accepts a Logger.
type NoOpLogger struct{}

func (NoOpLogger) Debugf(format string, v ...any) {}
func (NoOpLogger) Infof(format string, v ...any)  {}
func (NoOpLogger) Warnf(format string, v ...any)  {}
func (NoOpLogger) Errorf(format string, v ...any) {}

var _ Logger = NoOpLogger{}

// LogLevel orders log severities. Messages below the configured level are dropped.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ParseLogLevel maps "debug", "info", "warn"/"warning" and "error" to a LogLevel.
//
// Parameters:
//   - s: the level name (case-insensitive)
//
// Returns:
//   - LogLevel: the parsed level
//   - error: error if the name is unknown
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// StdLogger writes leveled lines through the standard library logger.
type StdLogger struct {
	level  LogLevel
	logger *log.Logger
}

var _ Logger = &StdLogger{}

// NewStdLogger creates a StdLogger writing to stderr with standard timestamps.
//
// Parameters:
//   - level: the minimum level that is emitted
//
// Returns:
//   - *StdLogger: the logger
func NewStdLogger(level LogLevel) *StdLogger {
	return &StdLogger{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewStdLoggerWith wraps an existing *log.Logger. Used by tests and hosts that redirect output.
func NewStdLoggerWith(level LogLevel, l *log.Logger) *StdLogger {
	return &StdLogger{level: level, logger: l}
}

func (l *StdLogger) Debugf(format string, v ...any) {
	l.logf(LogLevelDebug, "[DEBUG] ", format, v...)
}

func (l *StdLogger) Infof(format string, v ...any) {
	l.logf(LogLevelInfo, "[INFO] ", format, v...)
}

func (l *StdLogger) Warnf(format string, v ...any) {
	l.logf(LogLevelWarn, "[WARN] ", format, v...)
}

func (l *StdLogger) Errorf(format string, v ...any) {
	l.logf(LogLevelError, "[ERROR] ", format, v...)
}

func (l *StdLogger) logf(level LogLevel, prefix, format string, v ...any) {
	if level < l.level {
		return
	}
	l.logger.Printf(prefix+format, v...)
}
