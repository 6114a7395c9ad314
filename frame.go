package eventemitter

import (
	"context"
	"reflect"
	"sync"
)

// frame is the bookkeeping of one in-flight Emit call.
type frame struct {
	name    string
	stopped bool
	data    []any
	ctx     context.Context
}

func (e *Emitter) push(name string, args []any) *frame {
	f := &frame{
		name: name,
		data: append(make([]any, 0, len(args)), args...),
		ctx:  context.Background(),
	}

	e.framesMu.Lock()
	if n := len(e.frames); n > 0 {
		f.ctx = e.frames[n-1].ctx
	}
	e.frames = append(e.frames, f)
	depth := len(e.frames)
	e.framesMu.Unlock()

	e.logger.Debugf("push %q frame at depth %d", name, depth)
	return f
}

func (e *Emitter) pop(f *frame) {
	e.framesMu.Lock()
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i] == f {
			e.frames[i] = nil
			e.frames = e.frames[:i]
			break
		}
	}
	e.framesMu.Unlock()

	e.logger.Debugf("pop %q frame", f.name)
}

func (e *Emitter) current() *frame {
	e.framesMu.Lock()
	defer e.framesMu.Unlock()

	if n := len(e.frames); n > 0 {
		return e.frames[n-1]
	}
	return nil
}

func (e *Emitter) stop(f *frame, names []string) bool {
	e.framesMu.Lock()
	defer e.framesMu.Unlock()

	if len(names) > 0 && names[0] != f.name {
		return false
	}
	f.stopped = true
	return true
}

func (e *Emitter) isStopped(f *frame) bool {
	e.framesMu.Lock()
	defer e.framesMu.Unlock()

	return f.stopped
}

// args returns a copy of the data the next listener of f is called with.
func (e *Emitter) args(f *frame) []any {
	e.framesMu.Lock()
	defer e.framesMu.Unlock()

	return append(make([]any, 0, len(f.data)), f.data...)
}

// StopEmit stops the innermost emission running on e: the listeners of that pass that
// have not run yet are skipped. Emissions started from inside the pass and the passes
// around it are left alone. When a name is given it must match the event being emitted.
// StopEmit reports whether a pass was stopped.
func (e *Emitter) StopEmit(names ...string) bool {
	f := e.current()
	if f == nil {
		return false
	}
	return e.stop(f, names)
}

// SetEventData replaces the arguments the remaining listeners of the innermost emission
// are called with. Outside an emission it does nothing.
func (e *Emitter) SetEventData(args ...any) *Emitter {
	f := e.current()
	if f == nil {
		return e
	}

	e.framesMu.Lock()
	f.data = append(f.data[:0], args...)
	e.framesMu.Unlock()

	return e
}

// EventData returns a copy of the arguments of the innermost emission, nil outside one.
func (e *Emitter) EventData() []any {
	f := e.current()
	if f == nil {
		return nil
	}
	return e.args(f)
}

// EventType returns the name of the innermost emission.
func (e *Emitter) EventType() (string, bool) {
	f := e.current()
	if f == nil {
		return "", false
	}
	return f.name, true
}

// running tracks the listener executing right now, process wide, for Stop.
var running struct {
	sync.Mutex
	emitter  *Emitter
	frame    *frame
	receiver any
}

// enter marks a listener of f as running and returns the function restoring the
// previous state.
func enter(e *Emitter, f *frame, receiver any) func() {
	running.Lock()
	prevEmitter, prevFrame, prevReceiver := running.emitter, running.frame, running.receiver
	running.emitter, running.frame, running.receiver = e, f, receiver
	running.Unlock()

	return func() {
		running.Lock()
		running.emitter, running.frame, running.receiver = prevEmitter, prevFrame, prevReceiver
		running.Unlock()
	}
}

// Stop stops the emission whose listener is running right now, without a reference to
// its emitter. When a receiver is given, the running listener must have been invoked
// with it. Stop reports whether an emission was stopped.
//
// The running listener is tracked process wide: when several goroutines emit at the
// same time, Stop may stop the emission of another goroutine. Use Emitter.StopEmit there.
func Stop(receiver ...any) bool {
	running.Lock()
	e, f, current := running.emitter, running.frame, running.receiver
	running.Unlock()

	if f == nil {
		return false
	}
	if r := firstReceiver(receiver); r != nil && !sameReceiver(r, current) {
		return false
	}
	return e.stop(f, nil)
}

func sameReceiver(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
