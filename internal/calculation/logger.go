package calculation

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logger is a minimal leveled logging interface shared by the engine, the
// session and the HTTP server. The default is a no-op.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger implements Logger with no output.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// ParseLevel maps debug, info, warn or error to a Level.
func ParseLevel(name string) (Level, error) {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return l, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// StdLogger writes messages at or above a minimum level through the
// standard library logger, prefixed "[LEVEL]".
type StdLogger struct {
	out *log.Logger
	min Level
}

// NewStdLogger creates a StdLogger writing to w.
func NewStdLogger(w io.Writer, min Level) *StdLogger {
	return &StdLogger{out: log.New(w, "", log.LstdFlags), min: min}
}

func (s *StdLogger) logf(l Level, tag, format string, args ...any) {
	if l < s.min {
		return
	}
	s.out.Printf("["+tag+"] "+format, args...)
}

func (s *StdLogger) Debugf(format string, args ...any) { s.logf(LevelDebug, "DEBUG", format, args...) }
func (s *StdLogger) Infof(format string, args ...any)  { s.logf(LevelInfo, "INFO", format, args...) }
func (s *StdLogger) Warnf(format string, args ...any)  { s.logf(LevelWarn, "WARN", format, args...) }
func (s *StdLogger) Errorf(format string, args ...any) { s.logf(LevelError, "ERROR", format, args...) }
