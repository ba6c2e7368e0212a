// Package logger wraps zerolog with the structured-field conventions used
// across kzero: every error log carries a reason_code, and a pluggable
// sink lets a component mirror log lines onto another transport (e.g. a
// notification queue) without changing call sites.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/kzero-xyz/kzero-service/pkg/reasoncodes"
)

type Logger struct {
	zl   zerolog.Logger
	sink func(msg string, level zerolog.Level)
}

func New() *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	zl := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	return &Logger{zl: zl}
}

func NewFromConfig(cfg Config) *Logger {
	level := cfg.Level
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.CallerSkipFrameCount = 3

	zl := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)

	return &Logger{zl: zl}
}

func (l *Logger) WithOutput(w io.Writer) *Logger {
	l.zl = l.zl.Output(w)
	return l
}

func (l *Logger) With() zerolog.Context { return l.zl.With() }

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg); l.activateSink(msg, zerolog.DebugLevel) }
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
	l.activateSink(fmtMsg(format, v...), zerolog.DebugLevel)
}

func (l *Logger) Info(msg string) { l.zl.Info().Msg(msg); l.activateSink(msg, zerolog.InfoLevel) }
func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
	l.activateSink(fmtMsg(format, v...), zerolog.InfoLevel)
}

func (l *Logger) Warn(msg string) { l.zl.Warn().Msg(msg); l.activateSink(msg, zerolog.WarnLevel) }
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
	l.activateSink(fmtMsg(format, v...), zerolog.WarnLevel)
}

// Error logs err with an explicit reason code so taxonomy entries stay
// greppable in aggregated logs.
func (l *Logger) Error(err error, code reasoncodes.ReasonCode, msg string) {
	l.zl.Error().Err(err).Str("reason_code", string(code)).Msg(msg)
	l.activateSink(msg, zerolog.ErrorLevel)
}

func (l *Logger) Errorf(err error, code reasoncodes.ReasonCode, format string, v ...interface{}) {
	l.zl.Error().Err(err).Str("reason_code", string(code)).Msgf(format, v...)
	l.activateSink(fmtMsg(format, v...), zerolog.ErrorLevel)
}

func (l *Logger) Fatal(err error, msg string) { l.zl.Fatal().Err(err).Msg(msg) }
func (l *Logger) Fatalf(err error, format string, v ...interface{}) {
	l.zl.Fatal().Err(err).Msgf(format, v...)
}

func (l *Logger) Log(level zerolog.Level, msg string) {
	l.zl.WithLevel(level).Msg(msg)
	l.activateSink(msg, level)
}

func fmtMsg(format string, v ...interface{}) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}

func (l *Logger) activateSink(msg string, level zerolog.Level) {
	if l.sink != nil {
		l.sink(msg, level)
	}
}

// AddSink attaches a side-channel that receives every logged message
// alongside its level, e.g. to mirror log lines onto an AMQP publisher.
func AddSink(l *Logger, sink func(msg string, level zerolog.Level)) {
	l.sink = sink
}
