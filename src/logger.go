package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Pretty bool   // Enable pretty console output
	Path   string // Append-only log file, empty for console only
}

// newLogger creates the structured logger. Output always goes to stderr and,
// when a path is set, is also appended to the log file, which is returned so
// the crash handler can sync it.
func newLogger(cfg LoggerConfig) (zerolog.Logger, *os.File, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = os.Stderr
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}

	var logFile *os.File
	out := console
	if cfg.Path != "" {
		logFile, err = os.OpenFile(cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = zerolog.MultiLevelWriter(console, logFile)
	}

	log := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", APP_NAME).
		Logger()
	return log, logFile, nil
}
