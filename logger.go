package eventemitter

// Logger is the logging surface of an Emitter. NewLogrusLogger and NewWriterLogger
// provide implementations.
type Logger interface {
	WithField(key string, value any) Logger
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
}

// noopLogger discards everything. It is the default logger of an Emitter.
type noopLogger struct{}

func (n noopLogger) WithField(string, any) Logger { return n }
func (noopLogger) Debug(...any)                  {}
func (noopLogger) Debugf(string, ...any)         {}
func (noopLogger) Info(...any)                   {}
func (noopLogger) Infof(string, ...any)          {}
func (noopLogger) Warn(...any)                   {}
func (noopLogger) Warnf(string, ...any)          {}
func (noopLogger) Error(...any)                  {}
func (noopLogger) Errorf(string, ...any)         {}
