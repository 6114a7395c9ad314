package eventemitter

import "sync"

type listenerCall struct {
	receiver any
	args     []any
}

// spyListener records its invocations. Every spy owns a distinct Listener value, so it
// can be removed with Off.
type spyListener struct {
	mu    sync.Mutex
	calls []listenerCall

	// HandleFunc, when set, runs after the call is recorded and provides the result.
	HandleFunc func(receiver any, args ...any) error

	Listener Listener
}

func newSpyListener() *spyListener {
	s := &spyListener{}
	s.Listener = func(receiver any, args ...any) error {
		s.mu.Lock()
		s.calls = append(s.calls, listenerCall{receiver: receiver, args: args})
		handle := s.HandleFunc
		s.mu.Unlock()

		if handle != nil {
			return handle(receiver, args...)
		}
		return nil
	}
	return s
}

func (s *spyListener) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.calls)
}

func (s *spyListener) called() bool {
	return s.count() > 0
}

func (s *spyListener) last() listenerCall {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) == 0 {
		return listenerCall{}
	}
	return s.calls[len(s.calls)-1]
}
