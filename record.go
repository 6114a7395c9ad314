package eventemitter

import (
	"reflect"
	"unsafe"
)

type (
	// Listener is invoked with the receiver it was registered with, or with the owning
	// *Emitter when none was given, followed by the emitted arguments. A non-nil error
	// aborts the rest of the pass and is returned from Emit.
	//
	// A Listener is identified by its func value. Evaluating a method value (obj.Handle)
	// twice yields two different Listeners, so keep the value passed to On to hand it to
	// Off later.
	Listener func(receiver any, args ...any) error

	// Dispatcher is anything an event can be delegated to. *Emitter implements it.
	Dispatcher interface {
		Emit(name string, args ...any) (bool, error)
	}
)

// target is what a record points at: either a listener func or a dispatcher.
type target struct {
	listener Listener
	id       uintptr

	dispatcher Dispatcher
	alias      string
}

func listenerTarget(l Listener) target {
	return target{listener: l, id: listenerID(l)}
}

func dispatcherTarget(d Dispatcher, alias string) target {
	return target{dispatcher: d, alias: alias}
}

func (t target) isDispatcher() bool {
	return t.dispatcher != nil
}

// raw returns the callback as it was handed in by the caller.
func (t target) raw() any {
	if t.isDispatcher() {
		return t.dispatcher
	}
	return t.listener
}

func (t target) matchesListener(l Listener) bool {
	return !t.isDispatcher() && t.id == listenerID(l)
}

func (t target) matchesDispatcher(d Dispatcher) bool {
	if !t.isDispatcher() {
		return false
	}
	if !reflect.TypeOf(d).Comparable() || reflect.TypeOf(t.dispatcher) != reflect.TypeOf(d) {
		return false
	}
	return t.dispatcher == d
}

// listenerID identifies a func value by its closure pointer, so the same func value
// registered with On can later be handed to Off. Two closures created by the same
// literal are different listeners.
func listenerID(l Listener) uintptr {
	if l == nil {
		return 0
	}
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&l)))
}

// record is one subscription.
type record struct {
	event    string
	target   target
	receiver any
	once     bool
	removed  bool
}

func newRecord(event string, t target, receiver any, once bool) *record {
	return &record{
		event:    event,
		target:   t,
		receiver: receiver,
		once:     once,
	}
}
