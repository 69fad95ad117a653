package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *Logger
	once sync.Once
)

// Logger wraps logrus so that logging stays disabled unless explicitly
// requested through the environment. All minewatch packages share one
// instance obtained via GetMinewatchLogger.
type Logger struct {
	*logrus.Logger
}

// Entry wraps a logrus entry carrying structured fields.
type Entry struct {
	entry *logrus.Entry
}

func (l *Logger) Warn(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	warnFatal(args...)
	l.Logger.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	l.Logger.Errorf(format, args...)
}

func (l *Logger) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: l.Logger.WithField(key, value)}
}

func (l *Logger) WithFields(fields logrus.Fields) *Entry {
	return &Entry{entry: l.Logger.WithFields(fields)}
}

func (l *Logger) WithError(err error) *Entry {
	return &Entry{entry: l.Logger.WithError(err)}
}

func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: e.entry.WithField(key, value)}
}

func (e *Entry) Debug(args ...interface{}) {
	e.entry.Debug(args...)
}

func (e *Entry) Debugf(format string, args ...interface{}) {
	e.entry.Debugf(format, args...)
}

func (e *Entry) Warn(args ...interface{}) {
	warnFatal(args...)
	e.entry.Warn(args...)
}

func (e *Entry) Error(args ...interface{}) {
	warnFatal(args...)
	e.entry.Error(args...)
}

func (e *Entry) Errorf(format string, args ...interface{}) {
	warnFatalf(format, args...)
	e.entry.Errorf(format, args...)
}

func warnFatal(args ...interface{}) {
	if failFast != "" {
		log.Fatal(args...)
	}
}

func warnFatalf(format string, args ...interface{}) {
	if failFast != "" {
		log.Fatalf(format, args...)
	}
}

var failFast string

// InitializeMinewatchLogger sets up the shared logger exactly once. Logging
// is discarded unless DEBUG_MINEWATCH is set (debug/warn/error); setting
// WARNFAIL_MINEWATCH additionally promotes warnings and errors to fatals,
// which is useful when hunting for the first thing that goes wrong.
func InitializeMinewatchLogger() {
	once.Do(func() {
		log = &Logger{}
		log.Logger = logrus.New()
		// Quiet by default.
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.PanicLevel)
		if logLevel := os.Getenv("DEBUG_MINEWATCH"); logLevel != "" {
			failFast = os.Getenv("WARNFAIL_MINEWATCH")
			if failFast != "" {
				logLevel = "debug"
			}
			log.SetOutput(os.Stdout)
			switch strings.ToLower(logLevel) {
			case "debug":
				log.SetLevel(logrus.DebugLevel)
			case "warn":
				log.SetLevel(logrus.WarnLevel)
			case "error":
				log.SetLevel(logrus.ErrorLevel)
			default:
				log.SetLevel(logrus.DebugLevel)
			}
			log.WithField("level", log.GetLevel()).Debug("Logging enabled.")
		}
	})
}

// GetMinewatchLogger returns the initialized Logger
func GetMinewatchLogger() *Logger {
	if log == nil {
		InitializeMinewatchLogger()
	}
	return log
}

func init() {
	InitializeMinewatchLogger()
}
