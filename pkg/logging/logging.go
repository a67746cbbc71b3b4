// Package logging configures zerolog for the CLI and bridges it to the library's Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kataras/figma-tokens/pkg/errors"
)

// Setup configures the global logger based on verbosity level and writes pretty console
// output to w (os.Stderr when nil). 0 is warn, 1 info, 2 debug and anything higher trace.
func Setup(w io.Writer, verbosity int) {
	zerolog.SetGlobalLevel(Level(verbosity))

	if w == nil {
		w = os.Stderr
	}
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    w != os.Stderr,
	}
	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	// Add caller information for debug and trace levels
	if verbosity >= 2 {
		log.Logger = log.Logger.With().Caller().Logger()
	}

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// Level maps a verbosity count to a zerolog level.
func Level(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function that logs its
// outcome. A non-nil err passed to it is recorded with the number of broken tokens it carries.
func LogOperationStart(logger zerolog.Logger, operation string) func(err error) {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func(err error) {
		event := logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start))
		if err != nil {
			event.Err(err).Int("broken", len(errors.AsList(err))).Msg("Operation failed")
			return
		}
		event.Msg("Operation completed")
	}
}

// Adapter routes the printf-style progress messages of the figmatokens package to zerolog.
type Adapter struct {
	logger zerolog.Logger
}

// NewAdapter wraps logger.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

func (a *Adapter) Infof(format string, args ...any) {
	a.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (a *Adapter) Warnf(format string, args ...any) {
	a.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (a *Adapter) Errorf(format string, args ...any) {
	a.logger.Error().Msg(fmt.Sprintf(format, args...))
}
