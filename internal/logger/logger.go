package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const (
	// FieldPackage is the name of the package that emits the log entry.
	FieldPackage = "package"

	// FieldFunction is the name of the function that emits the log entry.
	FieldFunction = "function"
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Config
type Config struct {
	Level  string
	Format string
}

// Log is a structured leveled logger.
//
// Error and Errorf take the error that caused the entry separately
// from the message, so the message stays stable and the cause
// is attached as a structured field.
type Log interface {
	WithField(key string, value interface{}) Log
	WithFields(fields Fields) Log

	Trace(msg string)
	Debug(msg string)
	Info(msg string)
	Infof(format string, args ...interface{})
	Warn(msg string)
	Warnf(format string, args ...interface{})
	Error(err error, msg string)
	Errorf(err error, format string, args ...interface{})
}

// logrusLog
type logrusLog struct {
	entry *logrus.Entry
}

// New creates a logger that writes to stderr.
func New(conf Config) (Log, error) {
	return NewWithOutput(conf, os.Stderr)
}

// NewWithOutput creates a logger that writes to the given output.
func NewWithOutput(conf Config, out io.Writer) (Log, error) {
	l := logrus.New()
	l.SetOutput(out)

	level := logrus.WarnLevel
	if conf.Level != "" {
		parsed, err := logrus.ParseLevel(conf.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}
	l.SetLevel(level)

	switch strings.ToLower(conf.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	return &logrusLog{entry: logrus.NewEntry(l)}, nil
}

// NewNullLogger creates a logger that discards the output
// and records every entry in the returned hook.
func NewNullLogger() (Log, *logtest.Hook) {
	l, hook := logtest.NewNullLogger()
	l.SetLevel(logrus.TraceLevel)
	return &logrusLog{entry: logrus.NewEntry(l)}, hook
}

func (l *logrusLog) WithField(key string, value interface{}) Log {
	return &logrusLog{entry: l.entry.WithField(key, value)}
}

func (l *logrusLog) WithFields(fields Fields) Log {
	return &logrusLog{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *logrusLog) Trace(msg string) {
	l.entry.Trace(msg)
}

func (l *logrusLog) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *logrusLog) Info(msg string) {
	l.entry.Info(msg)
}

func (l *logrusLog) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *logrusLog) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *logrusLog) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *logrusLog) Error(err error, msg string) {
	l.entry.WithError(err).Error(msg)
}

func (l *logrusLog) Errorf(err error, format string, args ...interface{}) {
	l.entry.WithError(err).Errorf(format, args...)
}
