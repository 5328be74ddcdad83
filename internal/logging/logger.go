package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration
type Config struct {
	Level   string
	LogFile string
	NoColor bool
	// Console receives human readable output; defaults to os.Stderr
	Console io.Writer
}

// NewLogger creates a new zerolog logger with dual output (console + file).
// Every logger is tagged with a fresh invocation id so one run can be
// followed through the shared log file.
func NewLogger(cfg Config) *zerolog.Logger {
	// Enable stack trace marshaling
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level := parseLevel(cfg.Level)

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:          console,
		TimeFormat:   "15:04:05",
		NoColor:      cfg.NoColor,
		PartsExclude: []string{zerolog.CallerFieldName},
		FieldsExclude: []string{
			"invocation",
		},
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter)

	// File logger if path provided
	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    5, // MB
				MaxBackups: 2,
				MaxAge:     14, // days
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	multi := zerolog.MultiLevelWriter(writers...)

	logger := zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Str("invocation", uuid.NewString()).
		Logger()

	return &logger
}

// parseLevel converts string level to zerolog.Level
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// NewTestLogger creates a logger for testing that writes to a buffer
func NewTestLogger(w io.Writer) *zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	return &logger
}

// Nop returns a logger that discards everything
func Nop() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
