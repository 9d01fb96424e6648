// Package gatelog provides leveled, component-prefixed logging for the
// gate CLI and its internal services. It wraps the standard library log
// package rather than introducing a structured-logging dependency (see
// DESIGN.md).
package gatelog

import (
	"log"
	"os"
)

// Level is the logging verbosity, ordered from least to most verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// Logger logs messages at or below its configured level, each line
// prefixed with the component name that created the Logger (e.g.
// "[orchestrator]", "[cli]").
type Logger struct {
	component string
	level     Level
}

// New creates a Logger for the named component at the given level.
func New(component string, level Level) *Logger {
	return &Logger{component: component, level: level}
}

// NewDefault creates a Logger for the named component, reading its level
// from the LOG_LEVEL environment variable (ERROR, WARN, INFO, DEBUG,
// TRACE); unset or unrecognized values default to INFO.
func NewDefault(component string) *Logger {
	level := LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "ERROR":
		level = LevelError
	case "WARN":
		level = LevelWarn
	case "INFO":
		level = LevelInfo
	case "DEBUG":
		level = LevelDebug
	case "TRACE":
		level = LevelTrace
	}
	return &Logger{component: component, level: level}
}

func (l *Logger) prefix() string {
	return "[" + l.component + "] "
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level >= LevelError {
		log.Printf(l.prefix()+"ERROR: "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level >= LevelWarn {
		log.Printf(l.prefix()+"WARN: "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		log.Printf(l.prefix()+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		log.Printf(l.prefix()+"DEBUG: "+format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		log.Printf(l.prefix()+"TRACE: "+format, args...)
	}
}

// GetLevel returns the logger's configured level.
func (l *Logger) GetLevel() Level {
	return l.level
}
