package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LogLevel represents the logging level
type LogLevel string

const (
	// LogLevelQuiet suppresses all output except errors
	LogLevelQuiet LogLevel = "quiet"
	// LogLevelNormal shows standard operational messages
	LogLevelNormal LogLevel = "normal"
	// LogLevelVerbose shows detailed operational information
	LogLevelVerbose LogLevel = "verbose"
	// LogLevelDebug shows all debug information
	LogLevelDebug LogLevel = "debug"
)

// Logger provides structured logging. Every entry carries the correlation ID
// of the invocation.
type Logger struct {
	logger        *logrus.Logger
	entry         *logrus.Entry
	level         LogLevel
	correlationID string
}

// Config holds logger configuration
type Config struct {
	Level         LogLevel
	Output        io.Writer
	Format        string // "text" or "json"
	ShowCaller    bool
	LogFile       string
	CorrelationID string
}

// NewLogger creates a new logger with the specified configuration
func NewLogger(config Config) (*Logger, error) {
	logger := logrus.New()

	output := config.Output
	if output == nil {
		output = os.Stderr
	}
	logger.SetOutput(output)

	switch config.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.SetLevel(logrusLevel(config.Level))

	if config.ShowCaller {
		logger.SetReportCaller(true)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				filename := filepath.Base(f.File)
				return fmt.Sprintf("%s()", f.Function), fmt.Sprintf("%s:%d", filename, f.Line)
			},
		})
	}

	if config.LogFile != "" {
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", config.LogFile, err)
		}
		logger.SetOutput(io.MultiWriter(output, file))
	}

	correlationID := config.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	level := config.Level
	if level == "" {
		level = LogLevelNormal
	}

	return &Logger{
		logger:        logger,
		entry:         logger.WithField("correlation_id", correlationID),
		level:         level,
		correlationID: correlationID,
	}, nil
}

// NewDefaultLogger creates a logger with default configuration
func NewDefaultLogger() *Logger {
	logger, _ := NewLogger(Config{
		Level:  LogLevelNormal,
		Output: os.Stderr,
		Format: "text",
	})
	return logger
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	logger, _ := NewLogger(Config{Level: LogLevelQuiet, Output: io.Discard})
	return logger
}

func logrusLevel(level LogLevel) logrus.Level {
	switch level {
	case LogLevelQuiet:
		return logrus.ErrorLevel
	case LogLevelVerbose:
		return logrus.DebugLevel
	case LogLevelDebug:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

// CorrelationID returns the ID attached to every entry.
func (l *Logger) CorrelationID() string {
	return l.correlationID
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *logrus.Entry {
	return l.entry.WithFields(fields)
}

// WithField returns a logger with a single additional field
func (l *Logger) WithField(key string, value interface{}) *logrus.Entry {
	return l.entry.WithField(key, value)
}

// LogProviderRegistered logs a provider added to a registry. Secret looking
// configuration values are masked.
func (l *Logger) LogProviderRegistered(capability, name, providerType string, cfg map[string]interface{}) {
	l.entry.WithFields(logrus.Fields{
		"operation":  "provider_registration",
		"capability": capability,
		"provider":   name,
		"type":       providerType,
		"config":     RedactConfig(cfg),
	}).Debug("Provider registered")
}

// LogResolution logs how a command argument obtained its value.
func (l *Logger) LogResolution(argument, value string, prompted bool) {
	source := "flag"
	if prompted {
		source = "prompt"
	}
	l.entry.WithFields(logrus.Fields{
		"operation": "argument_resolution",
		"argument":  argument,
		"value":     value,
		"source":    source,
	}).Debug("Argument resolved")
}

// LogListing logs a directory listing of a storage provider.
func (l *Logger) LogListing(provider, dir string, files, dirs int, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": "list_contents",
		"provider":  provider,
		"path":      dir,
		"files":     files,
		"dirs":      dirs,
		"duration":  duration.String(),
	}

	if err != nil {
		fields["error"] = err.Error()
		l.entry.WithFields(fields).Error("Listing failed")
		return
	}
	l.entry.WithFields(fields).Debug("Listing completed")
}

// LogProcedureStart logs the start of a backup or restore procedure and
// returns a function to log its completion.
func (l *Logger) LogProcedureStart(procedure string, fields map[string]interface{}) func(error) {
	startTime := time.Now()

	logFields := logrus.Fields{
		"operation": procedure,
		"status":    "started",
	}
	for k, v := range fields {
		logFields[k] = v
	}

	l.entry.WithFields(logFields).Info("Procedure started")

	return func(err error) {
		logFields["status"] = "completed"
		logFields["duration"] = time.Since(startTime).String()

		if err != nil {
			logFields["error"] = err.Error()
			logFields["success"] = false
			l.entry.WithFields(logFields).Error("Procedure failed")
		} else {
			logFields["success"] = true
			l.entry.WithFields(logFields).Info("Procedure completed")
		}
	}
}

// Standard logging methods

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.entry.Info(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.entry.Debug(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.entry.Warn(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.entry.Error(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// SetLevel sets the log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	l.logger.SetLevel(logrusLevel(level))
}

// IsLevelEnabled checks if a log level is enabled
func (l *Logger) IsLevelEnabled(level LogLevel) bool {
	switch level {
	case LogLevelQuiet, LogLevelNormal, LogLevelVerbose, LogLevelDebug:
		return l.logger.IsLevelEnabled(logrusLevel(level))
	default:
		return false
	}
}

var secretMarkers = []string{"pass", "secret", "key", "token", "credential"}

// RedactConfig returns a shallow copy of cfg with secret looking values
// masked.
func RedactConfig(cfg map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(cfg))
	for k, v := range cfg {
		if isSecretKey(k) {
			out[k] = "***"
			continue
		}
		out[k] = v
	}
	return out
}

func isSecretKey(key string) bool {
	lower := strings.ToLower(key)
	for _, marker := range secretMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
