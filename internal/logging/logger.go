// Package logging provides the structured logging interface used by the
// device shell, the HTTP server and the benchmark harness. Production code
// logs through zerolog; a standard log.Logger can stand in where plain text
// is wanted.
package logging

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the logging interface shared by the long-running components.
type Logger interface {
	Info(msg string, fields ...Field)
	// Error logs msg with err attached.
	Error(msg string, err error, fields ...Field)
	Debug(msg string, fields ...Field)
	// Printf and Println log at info level, like log.Logger.
	Printf(format string, args ...any)
	Println(args ...any)
}

// Field is one key-value pair of a structured event.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{key, value} }
func Int(key string, value int) Field                { return Field{key, value} }
func Int64(key string, value int64) Field            { return Field{key, value} }
func Uint64(key string, value uint64) Field          { return Field{key, value} }
func Bool(key string, value bool) Field              { return Field{key, value} }
func Duration(key string, value time.Duration) Field { return Field{key, value} }

// Err attaches err under the "error" key.
func Err(err error) Field { return Field{"error", err} }

// addTo writes the field with the zerolog encoder for its dynamic type.
func (f Field) addTo(e *zerolog.Event) *zerolog.Event {
	switch v := f.Value.(type) {
	case string:
		return e.Str(f.Key, v)
	case int:
		return e.Int(f.Key, v)
	case int64:
		return e.Int64(f.Key, v)
	case uint64:
		return e.Uint64(f.Key, v)
	case bool:
		return e.Bool(f.Key, v)
	case time.Duration:
		return e.Dur(f.Key, v)
	case error:
		return e.AnErr(f.Key, v)
	default:
		return e.Interface(f.Key, v)
	}
}

// ZeroLogger writes events through a zerolog.Logger.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger returns a logger writing JSON lines to w, each tagged with
// component.
func NewLogger(w io.Writer, component string) *ZeroLogger {
	return &ZeroLogger{zl: zerolog.New(w).With().Timestamp().Str("component", component).Logger()}
}

// NewDefaultLogger follows the global zerolog logger, so Setup decides its
// level and output.
func NewDefaultLogger() *ZeroLogger {
	return &ZeroLogger{zl: log.Logger}
}

// With returns a child that adds fields to every event.
func (z *ZeroLogger) With(fields ...Field) *ZeroLogger {
	c := z.zl.With()
	for _, f := range fields {
		c = c.Interface(f.Key, f.Value)
	}
	return &ZeroLogger{zl: c.Logger()}
}

func (z *ZeroLogger) emit(e *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		e = f.addTo(e)
	}
	e.Msg(msg)
}

func (z *ZeroLogger) Info(msg string, fields ...Field)  { z.emit(z.zl.Info(), msg, fields) }
func (z *ZeroLogger) Debug(msg string, fields ...Field) { z.emit(z.zl.Debug(), msg, fields) }

func (z *ZeroLogger) Error(msg string, err error, fields ...Field) {
	z.emit(z.zl.Error().Err(err), msg, fields)
}

func (z *ZeroLogger) Printf(format string, args ...any) { z.zl.Info().Msgf(format, args...) }

func (z *ZeroLogger) Println(args ...any) {
	z.zl.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// StdLogger renders events as "[LEVEL] msg key=value" lines on a
// log.Logger.
type StdLogger struct {
	l *stdlog.Logger
}

// NewStdLogger wraps l.
func NewStdLogger(l *stdlog.Logger) *StdLogger { return &StdLogger{l: l} }

func (s *StdLogger) line(level, msg string, err error, fields []Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	s.l.Println(b.String())
}

func (s *StdLogger) Info(msg string, fields ...Field)  { s.line("INFO", msg, nil, fields) }
func (s *StdLogger) Debug(msg string, fields ...Field) { s.line("DEBUG", msg, nil, fields) }

func (s *StdLogger) Error(msg string, err error, fields ...Field) {
	s.line("ERROR", msg, err, fields)
}

func (s *StdLogger) Printf(format string, args ...any) { s.l.Printf(format, args...) }
func (s *StdLogger) Println(args ...any)               { s.l.Println(args...) }

var (
	_ Logger = (*ZeroLogger)(nil)
	_ Logger = (*StdLogger)(nil)
)

// Setup configures the global zerolog logger that library packages log
// through. An empty level means info. With console set, events are
// rendered for a terminal instead of as JSON lines; a nil w means stderr.
func Setup(level string, w io.Writer, console bool) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		if lvl, err = zerolog.ParseLevel(strings.ToLower(level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	if w == nil {
		w = os.Stderr
	}
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	debugConfigured.Store(lvl <= zerolog.DebugLevel)
	return nil
}

var debugConfigured atomic.Bool

// DebugEnabled reports whether Setup configured debug or trace output and the
// global level still allows it. zerolog's own default level does not count.
func DebugEnabled() bool {
	return debugConfigured.Load() && zerolog.GlobalLevel() <= zerolog.DebugLevel
}
