package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide logger. Output stays on stdout in every
// environment; the platform's log shipper reads it from there.
func New(environment string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	level := zerolog.InfoLevel
	if environment != "production" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	return zerolog.New(output).With().
		Timestamp().
		Str("service", "estatehub-api").
		Str("env", environment).
		Logger()
}
