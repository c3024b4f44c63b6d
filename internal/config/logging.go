package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// SetupLogger configures the global logger for the resolved level.
// Unknown levels fall back to the default.
func (c *Config) SetupLogger(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
	logger.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	if err != nil {
		logger.Warn().Str("level", c.LogLevel).Msg("unknown log level, using error")
	}
}
