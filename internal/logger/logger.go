package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config controls logger construction
type Config struct {
	Level   string
	JSON    bool
	NoColor bool
	Output  io.Writer
}

// DefaultConfig logs warnings and above to stderr in console form
func DefaultConfig() Config {
	return Config{Level: "warn", Output: os.Stderr}
}

// New builds a zerolog logger. Reports never go through it, so it always
// writes to stderr unless Output says otherwise.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var log zerolog.Logger
	if cfg.JSON {
		log = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		}).With().Timestamp().Logger()
	}

	return log.Level(ParseLevel(cfg.Level))
}

// ParseLevel maps a level name to a zerolog level; unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
