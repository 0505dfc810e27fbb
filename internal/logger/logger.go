// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). The logger is safe for concurrent use.
//
// Output is formatted by logrus with the nested formatter so structured
// fields attached with [Logger.WithField] render as [key:value] blocks.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// ParseLevel maps "off", "normal" and "verbose" to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "quiet":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	}
	return LevelNormal, fmt.Errorf("unknown log level %q", s)
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	base  *logrus.Logger
	entry *logrus.Entry
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&formatter.Formatter{
		NoColors:        !isTerminal(out),
		TimestampFormat: "15:04:05",
		HideKeys:        false,
		FieldsOrder:     []string{"component", "session", "reminder", "track"},
	})

	l := &Logger{base: base, entry: logrus.NewEntry(base)}
	l.SetLevel(level)
	return l
}

// RotatingFile returns a size-rotated log writer at path. The parent
// directory is created if missing.
func RotatingFile(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}
	return &lumberjack.Logger{
		Filename:   path,
		LocalTime:  true,
		Compress:   true,
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 3,
	}, nil
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	switch level {
	case LevelOff:
		l.base.SetLevel(logrus.PanicLevel)
	case LevelVerbose:
		l.base.SetLevel(logrus.DebugLevel)
	default:
		l.base.SetLevel(logrus.InfoLevel)
	}
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch lv := l.base.GetLevel(); {
	case lv >= logrus.DebugLevel:
		return LevelVerbose
	case lv >= logrus.ErrorLevel:
		return LevelNormal
	default:
		return LevelOff
	}
}

// Writer returns the underlying output, for redirecting third-party
// loggers to the same destination.
func (l *Logger) Writer() io.Writer {
	return l.base.Out
}

// WithField returns a child logger that tags every line with key=value.
// The child shares level and output with its parent.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{base: l.base, entry: l.entry.WithField(key, value)}
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.entry.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.entry.Errorf(format, args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
