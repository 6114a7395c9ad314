package eventemitter

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidListener     = errors.New("listener must be a Listener or a Dispatcher")
	ErrInvalidArgument     = errors.New("count must be a non-negative number")
	ErrUnhandledErrorEvent = errors.New(`uncaught, unspecified "error" event`)
	ErrSelfEmit            = errors.New("can't emit on itself")
)

// ListenerError is returned by Emit when a listener of the pass fails.
type ListenerError struct {
	// EventName is the event whose listener failed.
	EventName string
	Err       error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener of %q failed: %s", e.EventName, e.Err)
}

func (e *ListenerError) Unwrap() error { return e.Err }

func (e *ListenerError) Cause() error { return e.Err }

func wrapListenerError(err error, event string) error {
	if err == nil {
		return nil
	}
	var le *ListenerError
	if errors.As(err, &le) {
		// already attributed by a nested emit
		return err
	}
	return &ListenerError{
		EventName: event,
		Err:       err,
	}
}

// unhandledError builds the failure returned when "error" is emitted without listeners.
func unhandledError(args []any) error {
	if len(args) > 0 {
		if err, ok := args[0].(error); ok && err != nil {
			return err
		}
		return errors.Wrapf(ErrUnhandledErrorEvent, "%v", args[0])
	}
	return ErrUnhandledErrorEvent
}
