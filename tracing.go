package eventemitter

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	spanKeyEventName      = "event.name"
	spanKeyEventListeners = "event.listeners"
	spanKeyEventStopped   = "event.stopped"
)

// startSpan opens the span of f when a tracer is configured. Emissions nested in a
// listener become children of the span of the outer emission.
func (e *Emitter) startSpan(f *frame, listeners int) trace.Span {
	if e.tracer == nil {
		return nil
	}

	ctx, span := e.tracer.Start(f.ctx, fmt.Sprintf("%s.emit", f.name),
		trace.WithAttributes(
			attribute.String(spanKeyEventName, f.name),
			attribute.Int(spanKeyEventListeners, listeners)),
		trace.WithSpanKind(trace.SpanKindInternal))

	e.framesMu.Lock()
	f.ctx = ctx
	e.framesMu.Unlock()

	return span
}

func (e *Emitter) endSpan(span trace.Span, f *frame, err error) {
	if span == nil {
		return
	}
	defer span.End()

	span.SetAttributes(attribute.Bool(spanKeyEventStopped, e.isStopped(f)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
