// Package logger builds the structured zerolog logger shared by every component.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Level is any zerolog level name, case-insensitive. Empty or unknown means info.
	Level  string
	Pretty bool
	// Output defaults to stdout. The TUI sets it to a file because it owns the terminal.
	Output io.Writer
}

// New returns a logger stamped with time and caller. It also sets the global
// level, so every logger in the process shares the configured threshold.
func New(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		// Colour codes only belong on a terminal
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: cfg.Output != nil}
	}

	return zerolog.New(out).With().Timestamp().Caller().Logger()
}

func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// OpenFile opens path for appending, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// SetGlobalLogger replaces zerolog/log's package logger.
func SetGlobalLogger(l zerolog.Logger) {
	log.Logger = l
}
