package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	charmlog "github.com/charmbracelet/log"

	"github.com/rpcsnoop/rpcsnoop/internal/domain/port"
)

// Logger is an implementation of port.Logger backed by charmbracelet/log.
// Operational logs go to stderr by default so they never interleave with
// the presenter's output on stdout.
type Logger struct {
	logger *charmlog.Logger
	writer io.Writer
}

// NewLogger creates a new Logger instance
func NewLogger(writer io.Writer, level string) *Logger {
	l := &Logger{
		logger: charmlog.NewWithOptions(writer, charmlog.Options{
			ReportTimestamp: true,
		}),
		writer: writer,
	}
	l.SetLevel(level)
	return l
}

// SetLevel changes the logging level
func (l *Logger) SetLevel(level string) {
	parsed, err := charmlog.ParseLevel(level)
	if err != nil {
		parsed = charmlog.InfoLevel
	}
	l.logger.SetLevel(parsed)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

// Close closes the writer if it implements io.Closer
func (l *Logger) Close() error {
	if l.writer == os.Stderr || l.writer == os.Stdout {
		return nil
	}
	if closer, ok := l.writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(filePath string, level string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	return NewLogger(file, level), nil
}

// Ensure Logger implements port.Logger
var _ port.Logger = (*Logger)(nil)
