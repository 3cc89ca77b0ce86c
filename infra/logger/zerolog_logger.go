package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Per-step records are logged at debug level and stay hidden unless the CLI
// raises verbosity, so long scenarios do not flood the terminal.
var threshold = zerolog.InfoLevel

// SetVerbose lowers the log threshold to debug, making per-step records
// visible. Loggers created afterwards pick up the new threshold.
func SetVerbose(verbose bool) {
	if verbose {
		threshold = zerolog.DebugLevel
	} else {
		threshold = zerolog.InfoLevel
	}
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to stderr, keeping stdout
// for simulation output. APP_ENV=dev selects human-readable console records,
// anything else structured JSON. All records carry the component field.
func NewZerologLogger(component string) Logger {
	env := strings.ToLower(os.Getenv("APP_ENV"))
	var z zerolog.Logger
	if env == "dev" {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		z = zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	} else {
		z = zerolog.New(os.Stderr).With().Timestamp().Str("component", component).Logger()
	}
	return &ZerologLogger{log: z.Level(threshold)}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
