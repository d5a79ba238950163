// Package log provides a leveled, structured logger shared by all
// services. It wraps zerolog behind the Infow/Debugw style call
// surface used across the codebase.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	FormatJSON = "json"
	FormatText = "text"
)

var (
	logger zerolog.Logger
	level  = LogLevelInfo
)

func init() {
	// Sensible default until Init is called explicitly.
	Init(LogLevelInfo, FormatText, "stderr")
}

// Init sets up the package logger. Level is one of debug, info, warn
// or error; format is json or text; output is "stdout", "stderr" or a
// file path.
func Init(logLevel, format, output string) {
	var out io.Writer
	switch output {
	case "stdout":
		out = os.Stdout
	case "stderr", "":
		out = os.Stderr
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("cannot open log output %q: %v", output, err))
		}
		out = f
	}
	if format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	zl, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		zl = zerolog.InfoLevel
	}
	level = zl.String()
	logger = zerolog.New(out).Level(zl).With().Timestamp().Logger()
}

// Level returns the configured log level as a string.
func Level() string {
	return level
}

func withFields(ev *zerolog.Event, keysAndValues []any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}

func Debug(args ...any) { logger.Debug().Msg(fmt.Sprint(args...)) }
func Info(args ...any)  { logger.Info().Msg(fmt.Sprint(args...)) }
func Warn(args ...any)  { logger.Warn().Msg(fmt.Sprint(args...)) }
func Error(args ...any) { logger.Error().Msg(fmt.Sprint(args...)) }

func Debugf(format string, args ...any) { logger.Debug().Msgf(format, args...) }
func Infof(format string, args ...any)  { logger.Info().Msgf(format, args...) }
func Warnf(format string, args ...any)  { logger.Warn().Msgf(format, args...) }
func Errorf(format string, args ...any) { logger.Error().Msgf(format, args...) }

func Debugw(msg string, keysAndValues ...any) { withFields(logger.Debug(), keysAndValues).Msg(msg) }
func Infow(msg string, keysAndValues ...any)  { withFields(logger.Info(), keysAndValues).Msg(msg) }
func Warnw(msg string, keysAndValues ...any)  { withFields(logger.Warn(), keysAndValues).Msg(msg) }
func Errorw(msg string, keysAndValues ...any) { withFields(logger.Error(), keysAndValues).Msg(msg) }

// Fatalf logs at error level and exits with status 1.
func Fatalf(format string, args ...any) {
	logger.Error().Msgf(format, args...)
	os.Exit(1)
}
