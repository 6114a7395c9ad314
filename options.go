package eventemitter

import (
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Emitter created with New.
type Option func(*Emitter)

// WithMaxListeners sets the soft cap above which a warning is logged for an event.
// Negative values are ignored; 0 disables the warning.
func WithMaxListeners(n int) Option {
	return func(e *Emitter) {
		if n >= 0 {
			e.maxListeners = n
		}
	}
}

// WithLogger installs the logger used for diagnostics.
func WithLogger(l Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTracer enables one span per emission that reaches at least one listener.
func WithTracer(t trace.Tracer) Option {
	return func(e *Emitter) {
		e.tracer = t
	}
}
