// Copyright 2018 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger provides methods for logging with different levels.
package logger

import (
	"context"
	"fmt"
	"io"
	goLog "log"
	"os"

	"go.lapackjni.dev/bindgen/tools/lib/color"
)

type globalLoggerKeyType struct{}

// WithLogger returns the context with its logger set as the provided Logger.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, globalLoggerKeyType{}, logger)
}

// LoggerFromContext returns the context logger if configured, otherwise nil.
func LoggerFromContext(ctx context.Context) *Logger {
	if v, ok := ctx.Value(globalLoggerKeyType{}).(*Logger); ok && v != nil {
		return v
	}
	return nil
}

// Logger writes messages at or below its LoggerLevel. Errors and fatal
// messages go to a separate writer.
type Logger struct {
	LoggerLevel   LogLevel
	goLogger      *goLog.Logger
	goErrorLogger *goLog.Logger
	color         color.Color
	prefix        interface{}
}

// LogLevel represents different levels for logging depending on the amount of detail wanted.
type LogLevel int

const (
	NoLogLevel LogLevel = iota
	FatalLevel
	ErrorLevel
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

var levelToName = map[LogLevel]string{
	NoLogLevel:   "no",
	FatalLevel:   "fatal",
	ErrorLevel:   "error",
	WarningLevel: "warning",
	InfoLevel:    "info",
	DebugLevel:   "debug",
	TraceLevel:   "trace",
}

// Copied from Go log so callers don't need to also import log.
const (
	Ldate         = goLog.Ldate
	Ltime         = goLog.Ltime
	Lmicroseconds = goLog.Lmicroseconds
	Llongfile     = goLog.Llongfile
	Lshortfile    = goLog.Lshortfile
	LUTC          = goLog.LUTC
	Lmsgprefix    = goLog.Lmsgprefix
	LstdFlags     = Ldate | Lmicroseconds
)

// startDepth is the call depth of the caller of any exported logging function.
const startDepth = 2

// String returns the name of the LogLevel, or an empty string if it has none.
func (l *LogLevel) String() string {
	return levelToName[*l]
}

// Set sets the LogLevel based on its string value.
func (l *LogLevel) Set(s string) error {
	for level, name := range levelToName {
		if name == s {
			*l = level
			return nil
		}
	}
	return fmt.Errorf("%s is not a valid level", s)
}

// NewLogger creates a new logger instance. A nil outWriter or errWriter
// defaults to stdout or stderr. The prefix appears before every message.
func NewLogger(loggerLevel LogLevel, color color.Color, outWriter, errWriter io.Writer, prefix interface{}) *Logger {
	if outWriter == nil {
		outWriter = os.Stdout
	}
	if errWriter == nil {
		errWriter = os.Stderr
	}
	return &Logger{
		LoggerLevel:   loggerLevel,
		goLogger:      goLog.New(outWriter, "", LstdFlags),
		goErrorLogger: goLog.New(errWriter, "", LstdFlags),
		color:         color,
		prefix:        prefix,
	}
}

func (l *Logger) SetFlags(flags int) {
	l.goLogger.SetFlags(flags)
	l.goErrorLogger.SetFlags(flags)
}

// tag returns the colored marker placed between the prefix and the message.
func (l *Logger) tag(level LogLevel) string {
	switch level {
	case DebugLevel:
		return l.color.Cyan("DEBUG: ")
	case TraceLevel:
		return l.color.Blue("TRACE: ")
	case WarningLevel:
		return l.color.Yellow("WARN: ")
	case ErrorLevel:
		return l.color.Red("ERROR: ")
	case FatalLevel:
		return l.color.Red("FATAL: ")
	}
	return ""
}

func (l *Logger) logf(callDepth int, level LogLevel, format string, a ...interface{}) {
	if level <= NoLogLevel || level > TraceLevel {
		panic(fmt.Sprintf("Undefined loglevel: %v, log message: %s", level, fmt.Sprintf(format, a...)))
	}
	if l.LoggerLevel < level {
		return
	}
	out := l.goLogger
	if level <= ErrorLevel {
		out = l.goErrorLogger
	}
	out.Output(callDepth+1, fmt.Sprintf("%v%s%s", l.prefix, l.tag(level), fmt.Sprintf(format, a...)))
	if level == FatalLevel {
		os.Exit(1)
	}
}

// Logf logs at the given level through the context logger, or the standard
// Go logger when the context carries none.
func Logf(ctx context.Context, level LogLevel, format string, a ...interface{}) {
	logf(startDepth, ctx, level, format, a...)
}

func logf(callDepth int, ctx context.Context, level LogLevel, format string, a ...interface{}) {
	if v := LoggerFromContext(ctx); v != nil {
		v.logf(callDepth+1, level, format, a...)
	} else {
		goLog.Output(callDepth+1, fmt.Sprintf(format, a...))
	}
}

// Infof logs the string if the logger is at least InfoLevel.
func (l *Logger) Infof(format string, a ...interface{}) {
	l.logf(startDepth, InfoLevel, format, a...)
}

func Infof(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, InfoLevel, format, a...)
}

// Debugf logs the string if the logger is at least DebugLevel.
func (l *Logger) Debugf(format string, a ...interface{}) {
	l.logf(startDepth, DebugLevel, format, a...)
}

func Debugf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, DebugLevel, format, a...)
}

// Tracef logs the string if the logger is at least TraceLevel.
func (l *Logger) Tracef(format string, a ...interface{}) {
	l.logf(startDepth, TraceLevel, format, a...)
}

func Tracef(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, TraceLevel, format, a...)
}

// Warningf logs the string if the logger is at least WarningLevel.
func (l *Logger) Warningf(format string, a ...interface{}) {
	l.logf(startDepth, WarningLevel, format, a...)
}

func Warningf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, WarningLevel, format, a...)
}

// Errorf logs the string if the logger is at least ErrorLevel.
func (l *Logger) Errorf(format string, a ...interface{}) {
	l.logf(startDepth, ErrorLevel, format, a...)
}

func Errorf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, ErrorLevel, format, a...)
}

// Fatalf logs the string and exits if the logger is at least FatalLevel.
func (l *Logger) Fatalf(format string, a ...interface{}) {
	l.logf(startDepth, FatalLevel, format, a...)
}

func Fatalf(ctx context.Context, format string, a ...interface{}) {
	logf(startDepth, ctx, FatalLevel, format, a...)
}
