package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// LogLevel defines severity for logger output.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger provides leveled logging backed by zerolog.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a logger with the desired level and component tag.
func NewLogger(level LogLevel, component string) *Logger {
	return NewLoggerTo(os.Stderr, level, component)
}

// NewLoggerTo creates a logger writing to an explicit destination
// (primarily for tests).
func NewLoggerTo(w io.Writer, level LogLevel, component string) *Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}).
		With().Timestamp().Str("component", component).Logger().
		Level(level.zerolog())
	return &Logger{zl: zl}
}

// SetLevel adjusts the current logging level.
func (l *Logger) SetLevel(level LogLevel) {
	if l == nil {
		return
	}
	l.zl = l.zl.Level(level.zerolog())
}

// Debugf prints debug messages.
func (l *Logger) Debugf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}

// Infof prints info messages.
func (l *Logger) Infof(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Info().Msg(fmt.Sprintf(format, args...))
}

// Warnf prints warning messages.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Warn().Msg(fmt.Sprintf(format, args...))
}

// Errorf prints error messages.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Error().Msg(fmt.Sprintf(format, args...))
}

var defaultLogger = NewLogger(LogLevelInfo, "semsim")

// GetLogger returns the global logger.
func GetLogger() *Logger {
	return defaultLogger
}

// SetLogger replaces the global logger (primarily for tests).
func SetLogger(l *Logger) {
	if l == nil {
		return
	}
	defaultLogger = l
}
