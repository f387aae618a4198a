package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"dataviz/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Logger writes leveled, structured log lines through logrus.
type Logger struct {
	base *logrus.Logger
	file *os.File
}

// Option configures a Logger
type Option func(*Logger)

// Field is a single structured key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// WithOutput sends log lines to w
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

// WithFile appends log lines to path in addition to stdout
func WithFile(path string) Option {
	return func(l *Logger) {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file %s: %v\n", path, err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(os.Stdout, f))
	}
}

// NewLogger creates a logger writing text lines to stdout unless options say otherwise
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&textFormatter{})

	l := &Logger{base: base}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the package logger
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetOutput sends the package logger's lines to w and returns the writer
// it replaced
func SetOutput(w io.Writer) io.Writer {
	prev := logger.base.Out
	logger.base.SetOutput(w)
	return prev
}

// SetDebug enables or disables debug output for every logger
func SetDebug(debug bool) {
	isDebug = debug
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Entry is a logger bound to a set of fields
type Entry struct {
	entry *logrus.Entry
}

func (l *Logger) entry() *Entry {
	return &Entry{entry: logrus.NewEntry(l.base)}
}

// With returns an entry carrying the given fields
func (l *Logger) With(fields ...Field) *Entry {
	return l.entry().With(fields...)
}

func (l *Logger) Info(msg string)                           { l.entry().Info(msg) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry().Infof(format, args...) }
func (l *Logger) Warn(msg string)                           { l.entry().Warn(msg) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry().Warnf(format, args...) }
func (l *Logger) Error(msg string)                          { l.entry().Error(msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry().Errorf(format, args...) }
func (l *Logger) Debug(msg string)                          { l.entry().Debug(msg) }
func (l *Logger) Debugf(format string, args ...interface{}) { l.entry().Debugf(format, args...) }

// With adds more fields to the entry
func (e *Entry) With(fields ...Field) *Entry {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Entry{entry: e.entry.WithFields(data)}
}

func (e *Entry) Info(msg string) { e.log(logrus.InfoLevel, msg) }
func (e *Entry) Infof(format string, args ...interface{}) {
	e.log(logrus.InfoLevel, fmt.Sprintf(format, args...))
}
func (e *Entry) Warn(msg string) { e.log(logrus.WarnLevel, msg) }
func (e *Entry) Warnf(format string, args ...interface{}) {
	e.log(logrus.WarnLevel, fmt.Sprintf(format, args...))
}
func (e *Entry) Error(msg string) { e.log(logrus.ErrorLevel, msg) }
func (e *Entry) Errorf(format string, args ...interface{}) {
	e.log(logrus.ErrorLevel, fmt.Sprintf(format, args...))
}

func (e *Entry) Debug(msg string) {
	if isDebug {
		e.log(logrus.DebugLevel, msg)
	}
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	if isDebug {
		e.log(logrus.DebugLevel, fmt.Sprintf(format, args...))
	}
}

func (e *Entry) log(level logrus.Level, msg string) {
	e.entry.WithField("caller", caller()).Log(level, msg)
}

// caller reports the first frame outside this file.
func caller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasSuffix(frame.File, "/internal/log/logger.go") {
			return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		}
		if !more {
			return ""
		}
	}
}

// LogWithFields returns an entry of the package logger carrying fields
func LogWithFields(fields ...Field) *Entry {
	return logger.With(fields...)
}

// LogWithError returns an entry describing err, including its kind and
// the path, parameter or selection it refers to.
func LogWithError(err error) *Entry {
	if err == nil {
		return logger.With(F("error", "<nil>"))
	}
	fields := []Field{F("error", err.Error()), F("error_kind", int(errors.KindOf(err)))}

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	var parseErr *errors.ParseError
	if errors.As(err, &parseErr) {
		fields = append(fields, F("file", parseErr.File()))
		if parseErr.Line() > 0 {
			fields = append(fields, F("line", parseErr.Line()))
		}
	}
	var warning *errors.ValidationWarning
	if errors.As(err, &warning) {
		fields = append(fields, F("field", warning.Field()))
	}
	return logger.With(fields...)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(msg string)                           { logger.entry().Info(msg) }
func Infof(format string, args ...interface{})  { logger.entry().Infof(format, args...) }
func Warn(msg string)                           { logger.entry().Warn(msg) }
func Warnf(format string, args ...interface{})  { logger.entry().Warnf(format, args...) }
func Error(msg string)                          { logger.entry().Error(msg) }
func Errorf(format string, args ...interface{}) { logger.entry().Errorf(format, args...) }
func Debug(msg string)                          { logger.entry().Debug(msg) }
func Debugf(format string, args ...interface{}) { logger.entry().Debugf(format, args...) }

// textFormatter renders "[timestamp] LEVEL: message key=value ..."
type textFormatter struct{}

func (f *textFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %s: %s", entry.Time.Format("2006-01-02 15:04:05"), strings.ToUpper(entry.Level.String()), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
