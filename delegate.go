package eventemitter

// Delegate forwards every emission of name to target, as target.Emit(alias, args...)
// when an alias is given and target.Emit(name, args...) otherwise. The delegation takes
// its place among the listeners of name like any other listener. Delegate panics with
// ErrInvalidListener when target is nil.
func (e *Emitter) Delegate(name string, target Dispatcher, alias ...string) *Emitter {
	if target == nil {
		panic(ErrInvalidListener)
	}

	var as string
	if len(alias) > 0 {
		as = alias[0]
	}
	return e.add(name, dispatcherTarget(target, as), nil, false)
}

// UnDelegate removes the most recent delegation of name to target. Errors of
// removeListener listeners are logged.
func (e *Emitter) UnDelegate(name string, target Dispatcher) *Emitter {
	if target == nil {
		panic(ErrInvalidListener)
	}

	_, err := e.removeLast(name, func(r *record) bool {
		return r.target.matchesDispatcher(target)
	})
	e.logNotificationError(EventRemoveListener, name, err)
	return e
}
