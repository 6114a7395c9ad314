// Package eventemitter provides a synchronous, in-process event emitter with once
// listeners, delegation to other emitters and per-emission stop and data replacement.
package eventemitter

import (
	"sync"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
)

const (
	// EventNewListener is emitted with (name, listener, receiver) before a listener is added.
	EventNewListener = "newListener"
	// EventRemoveListener is emitted with (name, listener) after a listener is removed.
	EventRemoveListener = "removeListener"
	// EventError is the event that fails Emit when nobody listens to it.
	EventError = "error"

	// MaxListeners is the default soft cap of listeners per event.
	MaxListeners = 10
)

// Emitter maps event names to ordered listeners and dispatches emissions to them
// synchronously, on the caller's goroutine, in registration order.
//
// Registration and removal are safe for concurrent use. The dispatch frames behind
// StopEmit, SetEventData, EventData and EventType belong to the goroutine that is
// emitting; an Emitter is expected to be emitted from one goroutine at a time.
type Emitter struct {
	mu     sync.RWMutex
	events map[string][]*record
	names  []string
	warned map[string]bool

	maxListeners int

	framesMu sync.Mutex
	frames   []*frame

	logger Logger
	tracer trace.Tracer
}

// New creates an empty Emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		maxListeners: MaxListeners,
		logger:       noopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithField("component", "eventemitter")
	return e
}

// On appends l to the listeners of name. The optional receiver is handed to l as its
// first argument; without one, l receives the emitter. On panics with ErrInvalidListener
// when l is nil.
//
// Keep the l value around to remove it with Off: a method value such as obj.Handle is a
// new Listener every time it is evaluated, so Off(name, obj.Handle) does not find it.
//
// Errors of newListener listeners cannot reach the caller; they are logged and the
// registration happens anyway.
func (e *Emitter) On(name string, l Listener, receiver ...any) *Emitter {
	if l == nil {
		panic(ErrInvalidListener)
	}
	return e.add(name, listenerTarget(l), firstReceiver(receiver), false)
}

// AddListener is an alias for On.
func (e *Emitter) AddListener(name string, l Listener, receiver ...any) *Emitter {
	return e.On(name, l, receiver...)
}

// Once is like On, but the listener is removed right before its first invocation.
func (e *Emitter) Once(name string, l Listener, receiver ...any) *Emitter {
	if l == nil {
		panic(ErrInvalidListener)
	}
	return e.add(name, listenerTarget(l), firstReceiver(receiver), true)
}

// Off removes the most recently added registration of l under name. l must be the
// Listener value handed to On, see On. Unknown listeners are ignored, use Remove to
// know whether something was removed. Off panics with ErrInvalidListener when l is nil.
//
// Errors of removeListener listeners are logged.
func (e *Emitter) Off(name string, l Listener) *Emitter {
	_, err := e.Remove(name, l)
	e.logNotificationError(EventRemoveListener, name, err)
	return e
}

// Remove is Off without chaining: it reports whether a registration of l was removed
// and returns the error of the removeListener notification.
func (e *Emitter) Remove(name string, l Listener) (bool, error) {
	if l == nil {
		panic(ErrInvalidListener)
	}
	return e.removeLast(name, func(r *record) bool {
		return r.target.matchesListener(l)
	})
}

// RemoveListener is an alias for Off.
func (e *Emitter) RemoveListener(name string, l Listener) *Emitter {
	return e.Off(name, l)
}

// RemoveAllListeners removes the listeners of the given events, or of every event when
// none is given. While a removeListener listener is registered each removal is notified
// individually, the removeListener listeners themselves going last.
func (e *Emitter) RemoveAllListeners(names ...string) *Emitter {
	if !e.hasListeners(EventRemoveListener) {
		e.mu.Lock()
		if len(names) == 0 {
			for _, name := range e.names {
				e.dropLocked(name)
			}
		} else {
			for _, name := range names {
				e.dropLocked(name)
			}
		}
		e.mu.Unlock()
		return e
	}

	if len(names) > 0 {
		for _, name := range names {
			e.removeEach(name)
		}
		return e
	}

	for _, name := range e.EventNames() {
		if name != EventRemoveListener {
			e.removeEach(name)
		}
	}
	e.removeEach(EventRemoveListener)

	// listeners added by the notifications themselves
	e.mu.Lock()
	for _, name := range append([]string(nil), e.names...) {
		e.dropLocked(name)
	}
	e.mu.Unlock()

	return e
}

// Listeners returns the callbacks registered under name, each one either a Listener or a
// Dispatcher, in dispatch order. The result is a copy and is never nil.
func (e *Emitter) Listeners(name string) []any {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records := e.events[name]
	res := make([]any, 0, len(records))
	for _, r := range records {
		res = append(res, r.target.raw())
	}
	return res
}

// ListenerCount returns how many listeners are registered under name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.events[name])
}

// ListenerCount returns how many listeners e has under name, 0 for a nil emitter.
func ListenerCount(e *Emitter, name string) int {
	if e == nil {
		return 0
	}
	return e.ListenerCount(name)
}

// EventNames returns the names that currently have listeners, in the order they were
// first registered.
func (e *Emitter) EventNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return append(make([]string, 0, len(e.names)), e.names...)
}

// SetMaxListeners changes the number of listeners per event above which a warning is
// logged. 0 disables the warning.
func (e *Emitter) SetMaxListeners(n int) error {
	if n < 0 {
		return errors.Wrapf(ErrInvalidArgument, "got %d", n)
	}

	e.mu.Lock()
	e.maxListeners = n
	e.warned = nil
	e.mu.Unlock()

	return nil
}

// MaxListenersCount returns the soft cap set by SetMaxListeners.
func (e *Emitter) MaxListenersCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.maxListeners
}

func (e *Emitter) add(name string, t target, receiver any, once bool) *Emitter {
	if receiver == any(e) {
		receiver = nil
	}

	if e.hasListeners(EventNewListener) {
		notified := receiver
		if notified == nil {
			notified = e
		}
		_, err := e.Emit(EventNewListener, name, t.raw(), notified)
		e.logNotificationError(EventNewListener, name, err)
	}

	e.mu.Lock()
	if e.events == nil {
		e.events = make(map[string][]*record)
	}
	records, found := e.events[name]
	if !found {
		e.names = append(e.names, name)
	}
	records = append(records, newRecord(name, t, receiver, once))
	e.events[name] = records

	count := len(records)
	warn := e.maxListeners > 0 && count > e.maxListeners && !e.warned[name]
	if warn {
		if e.warned == nil {
			e.warned = make(map[string]bool)
		}
		e.warned[name] = true
	}
	e.mu.Unlock()

	if warn {
		e.logger.WithField("event", name).Warnf(
			"possible memory leak detected: %d listeners added, use SetMaxListeners to increase the limit",
			count,
		)
	}

	return e
}

func (e *Emitter) hasListeners(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.events[name]) > 0
}

// snapshot copies the records of name as they are right now.
func (e *Emitter) snapshot(name string) []*record {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records := e.events[name]
	if len(records) == 0 {
		return nil
	}
	return append(make([]*record, 0, len(records)), records...)
}

// removeLast removes the last record of name accepted by match and notifies it. The
// error is the one of the removeListener notification.
func (e *Emitter) removeLast(name string, match func(*record) bool) (bool, error) {
	e.mu.Lock()
	records := e.events[name]
	position := -1
	for i := len(records) - 1; i >= 0; i-- {
		if match(records[i]) {
			position = i
			break
		}
	}
	if position < 0 {
		e.mu.Unlock()
		return false, nil
	}
	removed := records[position]
	e.unlinkLocked(name, position)
	e.mu.Unlock()

	return true, e.notifyRemoval(name, removed)
}

// removeRecord removes exactly r. It reports false when r was already gone.
func (e *Emitter) removeRecord(r *record) (bool, error) {
	return e.removeLast(r.event, func(candidate *record) bool {
		return candidate == r
	})
}

// removeEach removes the records of name one by one, last first.
func (e *Emitter) removeEach(name string) {
	records := e.snapshot(name)
	for i := len(records) - 1; i >= 0; i-- {
		_, err := e.removeRecord(records[i])
		e.logNotificationError(EventRemoveListener, name, err)
	}
}

func (e *Emitter) notifyRemoval(name string, r *record) error {
	if !e.hasListeners(EventRemoveListener) {
		return nil
	}
	_, err := e.Emit(EventRemoveListener, name, r.target.raw())
	return err
}

// logNotificationError reports a failed notification of a call that has no error
// result to return it through.
func (e *Emitter) logNotificationError(notification, name string, err error) {
	if err == nil {
		return
	}
	e.logger.WithField("event", name).Errorf("%s listener failed: %s", notification, err)
}

func (e *Emitter) unlinkLocked(name string, position int) {
	records := e.events[name]
	records[position].removed = true

	if len(records) == 1 {
		e.forgetLocked(name)
		return
	}

	next := make([]*record, 0, len(records)-1)
	next = append(next, records[:position]...)
	next = append(next, records[position+1:]...)
	e.events[name] = next
}

// dropLocked removes every record of name without notifying.
func (e *Emitter) dropLocked(name string) {
	records, found := e.events[name]
	if !found {
		return
	}
	for _, r := range records {
		r.removed = true
	}
	e.forgetLocked(name)
}

func (e *Emitter) forgetLocked(name string) {
	delete(e.events, name)
	delete(e.warned, name)
	for i, n := range e.names {
		if n == name {
			e.names = append(e.names[:i:i], e.names[i+1:]...)
			break
		}
	}
}

// consume decides whether r still runs in the current pass. Once records are removed
// here, before their invocation; a failing removeListener notification is returned and
// r does not run.
func (e *Emitter) consume(r *record) (bool, error) {
	if !r.once {
		e.mu.RLock()
		defer e.mu.RUnlock()
		return !r.removed, nil
	}
	return e.removeRecord(r)
}

func firstReceiver(receiver []any) any {
	if len(receiver) == 0 {
		return nil
	}
	return receiver[0]
}
