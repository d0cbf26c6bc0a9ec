// Package logging owns the process-wide zerolog logger used by the commands.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/jdeng/gopng/internal/oops"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.ErrorStackMarshaler = oops.ZerologStackMarshaler
	Setup(os.Stderr, zerolog.InfoLevel)
}

// Setup routes the global logger to w at the given level. Terminals get a
// colored console writer; anything else gets plain console output.
func Setup(w io.Writer, level zerolog.Level) {
	log.Logger = zerolog.New(NewConsoleWriter(w)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
}

// NewConsoleWriter returns a zerolog console writer for w.
func NewConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: time.Kitchen,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ParseLevel accepts zerolog level names, case-insensitively. The empty
// string is info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, oops.New(err, "bad log level %q", s)
	}
	return level, nil
}

func GlobalLogger() *zerolog.Logger {
	return &log.Logger
}

func Debug() *zerolog.Event {
	return log.Debug().Stack()
}

func Info() *zerolog.Event {
	return log.Info().Stack()
}

func Warn() *zerolog.Event {
	return log.Warn().Stack()
}

func Error() *zerolog.Event {
	return log.Error().Stack()
}

// LogPanicValue logs a value recovered from a panic along with a stack.
// A nil logger means the global one.
func LogPanicValue(logger *zerolog.Logger, val interface{}, msg string) {
	if logger == nil {
		logger = GlobalLogger()
	}

	if err, ok := val.(error); ok {
		l := logger.Error().Err(err)
		if _, ok := err.(*oops.Error); !ok {
			l = l.Interface(zerolog.ErrorStackFieldName, oops.Trace())
		}
		l.Msg(msg)
	} else {
		logger.Error().
			Interface("recovered", val).
			Interface(zerolog.ErrorStackFieldName, oops.Trace()).
			Msg(msg)
	}
}
