package eventemitter

import (
	"github.com/sirupsen/logrus"
)

// logrusLogger adapts a logrus entry to the logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps l so it can be handed to WithLogger. A nil l falls back to
// logrus.StandardLogger().
func NewLogrusLogger(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return logrusLogger{entry: logrus.NewEntry(l)}
}

func (l logrusLogger) WithField(key string, value any) Logger {
	return logrusLogger{entry: l.entry.WithField(key, value)}
}

func (l logrusLogger) Debug(args ...any) {
	l.entry.Debug(args...)
}

func (l logrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l logrusLogger) Info(args ...any) {
	l.entry.Info(args...)
}

func (l logrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l logrusLogger) Warn(args ...any) {
	l.entry.Warn(args...)
}

func (l logrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l logrusLogger) Error(args ...any) {
	l.entry.Error(args...)
}

func (l logrusLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}
