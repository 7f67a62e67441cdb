// Package logger wraps github.com/charmbracelet/log into the small surface
// the rest of flowforge depends on, the way the teacher's internal/logger
// adapts the same library behind its own Logger type.
package logger

import (
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Options configures a Logger at construction time.
type Options struct {
	Level      string // debug, info, warn, error
	JSON       bool
	Writer     io.Writer
	Component  string
	TimeFormat string
}

// Logger is a structured, leveled logger with a fixed set of "with" fields.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
}

// New builds a Logger from Options. An empty Level defaults to info.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	cbOpts := cblog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      opts.TimeFormat,
	}
	if opts.JSON {
		cbOpts.Formatter = cblog.JSONFormatter
	}

	base := cblog.NewWithOptions(writer, cbOpts)

	var fields []interface{}
	if opts.Component != "" {
		fields = []interface{}{"component", opts.Component}
	}
	return &Logger{base: base, fields: fields}, nil
}

// Nop returns a Logger that discards every entry, for tests.
func Nop() *Logger {
	l, _ := New(Options{Writer: io.Discard, Level: "error"})
	return l
}

// With returns a derived logger carrying the supplied key/value pairs in
// addition to the receiver's own fields, sorted by key for determinism.
func (l *Logger) With(kv map[string]any) *Logger {
	if l == nil {
		return nil
	}
	if len(kv) == 0 {
		return l
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	next := make([]interface{}, len(l.fields), len(l.fields)+len(kv)*2)
	copy(next, l.fields)
	for _, k := range keys {
		next = append(next, k, kv[k])
	}
	return &Logger{base: l.base, fields: next}
}

func (l *Logger) Debug(msg string) { l.emit(l.base.Debug, msg) }
func (l *Logger) Info(msg string)  { l.emit(l.base.Info, msg) }
func (l *Logger) Warn(msg string)  { l.emit(l.base.Warn, msg) }

// Error logs msg with err attached as a field, when err is non-nil.
func (l *Logger) Error(err error, msg string) {
	if l == nil || l.base == nil {
		return
	}
	fields := append([]interface{}{}, l.fields...)
	if err != nil {
		fields = append(fields, "error", err)
	}
	l.base.Error(msg, fields...)
}

func (l *Logger) emit(fn func(interface{}, ...interface{}), msg string) {
	if l == nil || l.base == nil {
		return
	}
	fn(msg, l.fields...)
}
