package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Options controls how a logger is built. The zero value logs warnings and
// above to stderr.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means warn, or debug
	// when the DEBUG environment variable is set.
	Level string
	// File, when set, receives log output instead of stderr. The file is
	// appended to, not truncated.
	File string
}

type AppLogger struct {
	logger *log.Logger
	debug  bool
	closer io.Closer
}

var (
	defaultLogger *AppLogger
	mu            sync.Mutex
)

// GetDefault returns the default logger instance (singleton-like for convenience)
func GetDefault() *AppLogger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewAppLogger()
	}
	return defaultLogger
}

// SetDefault replaces the logger used by the package-level helpers.
func SetDefault(l *AppLogger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Package-level convenience functions for quick logging
func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogPerformance(operation string, start time.Time) {
	GetDefault().LogPerformance(operation, start)
}

// NewAppLogger builds a logger from the environment alone.
func NewAppLogger() *AppLogger {
	l, err := New(Options{})
	if err != nil {
		// Options{} never opens a file
		panic(fmt.Sprintf("failed to build default logger: %v", err))
	}
	return l
}

// New builds a logger from opts.
func New(opts Options) (*AppLogger, error) {
	level := log.WarnLevel
	if os.Getenv("DEBUG") != "" {
		level = log.DebugLevel
	}
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var out io.Writer = os.Stderr
	var closer io.Closer
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closer = f
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "oddrafter",
	})
	logger.SetLevel(level)

	return &AppLogger{
		logger: logger,
		debug:  level == log.DebugLevel,
		closer: closer,
	}, nil
}

// Close releases the log file, if any.
func (al *AppLogger) Close() error {
	if al.closer == nil {
		return nil
	}
	return al.closer.Close()
}

// With returns a child logger that always carries keyvals.
func (al *AppLogger) With(keyvals ...interface{}) *AppLogger {
	return &AppLogger{
		logger: al.logger.With(keyvals...),
		debug:  al.debug,
	}
}

// Log application events
func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// Log performance metrics
func (al *AppLogger) LogPerformance(operation string, start time.Time) {
	if al.debug {
		al.logger.Debug("Performance",
			"operation", operation,
			"duration", time.Since(start),
		)
	}
}

// Testing Helper - NewTestLogger creates a logger that writes to a buffer for testing
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false, // Easier to test without timestamps
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
