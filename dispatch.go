package eventemitter

// Emit calls every listener registered under name, in registration order, with args.
//
// The listeners are those registered when Emit starts: listeners added during the pass
// wait for the next emission, listeners removed during the pass are skipped when their
// turn comes. Once listeners are removed right before they run. A listener error or a
// StopEmit call ends the pass early.
//
// Emit reports whether name had listeners. Emitting EventError without listeners fails:
// with the first argument when it is an error, with ErrUnhandledErrorEvent otherwise.
func (e *Emitter) Emit(name string, args ...any) (ok bool, err error) {
	records := e.snapshot(name)
	if len(records) == 0 {
		if name == EventError {
			return false, unhandledError(args)
		}
		return false, nil
	}

	f := e.push(name, args)
	defer e.pop(f)

	span := e.startSpan(f, len(records))
	defer func() { e.endSpan(span, f, err) }()

	return true, e.dispatch(f, records)
}

func (e *Emitter) dispatch(f *frame, records []*record) error {
	for _, r := range records {
		run, err := e.consume(r)
		if err != nil {
			return wrapListenerError(err, f.name)
		}
		if !run {
			continue
		}
		if r.once {
			e.logger.Debugf("once listener of %q consumed", f.name)
		}

		if r.target.isDispatcher() {
			err = e.forward(f, r)
		} else {
			err = e.invoke(f, r)
		}
		if err != nil {
			return wrapListenerError(err, f.name)
		}

		if e.isStopped(f) {
			break
		}
	}
	return nil
}

func (e *Emitter) invoke(f *frame, r *record) error {
	receiver := r.receiver
	if receiver == nil {
		receiver = e
	}

	leave := enter(e, f, receiver)
	defer leave()

	return r.target.listener(receiver, e.args(f)...)
}

func (e *Emitter) forward(f *frame, r *record) error {
	if r.target.matchesDispatcher(e) {
		return ErrSelfEmit
	}

	name := f.name
	if r.target.alias != "" {
		name = r.target.alias
	}

	_, err := r.target.dispatcher.Emit(name, e.args(f)...)
	return err
}
