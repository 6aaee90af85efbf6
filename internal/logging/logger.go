package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Field is a structured logging key/value pair. Values keep their native
// type until an adapter renders them.
type Field struct {
	Key   string
	Value any
}

// String creates a string-valued Field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int-valued Field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Uint64 creates a uint64-valued Field. Inputs to the benchmark cover the
// full unsigned range, so this is the workhorse helper.
func Uint64(key string, value uint64) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64-valued Field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Err creates a Field with the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the logging interface consumed by the rest of the application.
// Two adapters implement it: ZerologAdapter for production output and
// StdLoggerAdapter for contexts where a plain *log.Logger is preferable
// (tests, embedding).
type Logger interface {
	// Info logs an informational message with optional structured fields.
	Info(msg string, fields ...Field)
	// Error logs an error message. The error may be nil when only the
	// message matters.
	Error(msg string, err error, fields ...Field)
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...Field)
	// Printf logs a formatted message at info level, for call sites that
	// predate structured fields.
	Printf(format string, args ...any)
	// Println logs its arguments separated by spaces at info level.
	Println(args ...any)
}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter wraps an existing zerolog.Logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// NewLogger creates a ZerologAdapter writing JSON events to w, tagged with a
// component field. This is the constructor test code reaches for.
func NewLogger(w io.Writer, component string) *ZerologAdapter {
	zl := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewConsoleLogger creates a ZerologAdapter writing human-readable console
// output to w at the given level. The application uses it for stderr
// diagnostics so stdout stays reserved for benchmark results.
func NewConsoleLogger(w io.Writer, component string, level zerolog.Level) *ZerologAdapter {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	zl := zerolog.New(cw).Level(level).With().Timestamp().Str("component", component).Logger()
	return &ZerologAdapter{logger: zl}
}

// NewDefaultLogger returns the logger used when nothing is configured:
// console output on stderr, warn level, component "sumbench".
func NewDefaultLogger() Logger {
	return NewConsoleLogger(os.Stderr, "sumbench", zerolog.WarnLevel)
}

// Info implements Logger.
func (a *ZerologAdapter) Info(msg string, fields ...Field) {
	applyFields(a.logger.Info(), fields).Msg(msg)
}

// Error implements Logger.
func (a *ZerologAdapter) Error(msg string, err error, fields ...Field) {
	ev := a.logger.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	applyFields(ev, fields).Msg(msg)
}

// Debug implements Logger.
func (a *ZerologAdapter) Debug(msg string, fields ...Field) {
	applyFields(a.logger.Debug(), fields).Msg(msg)
}

// Printf implements Logger.
func (a *ZerologAdapter) Printf(format string, args ...any) {
	a.logger.Info().Msgf(format, args...)
}

// Println implements Logger.
func (a *ZerologAdapter) Println(args ...any) {
	a.logger.Info().Msg(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

// applyFields attaches fields to a zerolog event, preserving native types
// where zerolog has a dedicated method.
func applyFields(ev *zerolog.Event, fields []Field) *zerolog.Event {
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			ev = ev.Str(f.Key, v)
		case int:
			ev = ev.Int(f.Key, v)
		case int64:
			ev = ev.Int64(f.Key, v)
		case uint64:
			ev = ev.Uint64(f.Key, v)
		case float64:
			ev = ev.Float64(f.Key, v)
		case bool:
			ev = ev.Bool(f.Key, v)
		case error:
			ev = ev.AnErr(f.Key, v)
		default:
			ev = ev.Interface(f.Key, v)
		}
	}
	return ev
}

// StdLoggerAdapter adapts the standard library *log.Logger to the Logger
// interface. Fields render as key=value pairs appended to the message.
type StdLoggerAdapter struct {
	logger *log.Logger
}

// NewStdLoggerAdapter wraps a standard library logger.
func NewStdLoggerAdapter(l *log.Logger) *StdLoggerAdapter {
	return &StdLoggerAdapter{logger: l}
}

// Info implements Logger.
func (a *StdLoggerAdapter) Info(msg string, fields ...Field) {
	a.logger.Printf("[INFO] %s%s", msg, renderFields(fields))
}

// Error implements Logger.
func (a *StdLoggerAdapter) Error(msg string, err error, fields ...Field) {
	if err != nil {
		a.logger.Printf("[ERROR] %s error=%v%s", msg, err, renderFields(fields))
		return
	}
	a.logger.Printf("[ERROR] %s%s", msg, renderFields(fields))
}

// Debug implements Logger.
func (a *StdLoggerAdapter) Debug(msg string, fields ...Field) {
	a.logger.Printf("[DEBUG] %s%s", msg, renderFields(fields))
}

// Printf implements Logger.
func (a *StdLoggerAdapter) Printf(format string, args ...any) {
	a.logger.Printf(format, args...)
}

// Println implements Logger.
func (a *StdLoggerAdapter) Println(args ...any) {
	a.logger.Println(args...)
}

// renderFields formats fields as " k=v k=v"; empty input yields "".
func renderFields(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	return b.String()
}
