package eventemitter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testEventName  = "test"
	testEventOther = "other"
)

func TestDelegate(t *testing.T) {
	t.Run("forwards to another emitter", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		lOne := newSpyListener()
		lTwo := newSpyListener()

		emitter.AddListener(testEventName, lOne.Listener)
		oEmitter.AddListener(testEventName, lTwo.Listener)

		_, _ = emitter.Emit(testEventName)

		assert.Equal(t, 1, lOne.count())
		assert.False(t, lTwo.called())

		emitter.Delegate(testEventName, oEmitter)
		_, err := emitter.Emit(testEventName)

		require.NoError(t, err)
		assert.Equal(t, 2, lOne.count())
		assert.Equal(t, 1, lTwo.count())
		assert.Same(t, oEmitter, lTwo.last().receiver)
	})

	t.Run("forwards under an alias", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		lOne := newSpyListener()
		lTwo := newSpyListener()
		lOther := newSpyListener()

		emitter.AddListener(testEventName, lOne.Listener)
		oEmitter.AddListener(testEventOther, lTwo.Listener)
		oEmitter.AddListener(testEventName, lOther.Listener)

		emitter.Delegate(testEventName, oEmitter, testEventOther)
		_, err := emitter.Emit(testEventName)

		require.NoError(t, err)
		assert.Equal(t, 1, lOne.count())
		assert.Equal(t, 1, lTwo.count())
		assert.False(t, lOther.called())
	})

	t.Run("passes the arguments", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		lOne := newSpyListener()
		lTwo := newSpyListener()
		args := []any{1, false, "foo", &struct{ bar string }{bar: "baz"}}

		emitter.AddListener(testEventName, lOne.Listener)
		oEmitter.AddListener(testEventOther, lTwo.Listener)

		emitter.Delegate(testEventName, oEmitter, testEventOther)
		_, err := emitter.Emit(testEventName, args...)

		require.NoError(t, err)
		assert.Equal(t, args, lOne.last().args)
		assert.Equal(t, args, lTwo.last().args)
	})

	t.Run("any dispatcher", func(t *testing.T) {
		emitter := New()
		target := &mockDispatcher{}
		target.On("Emit", "y", []any{1, 2}).Return(true, nil).Once()

		ok, err := emitter.Delegate("x", target, "y").Emit("x", 1, 2)

		require.NoError(t, err)
		assert.True(t, ok)
		target.AssertExpectations(t)
	})

	t.Run("keeps registration order", func(t *testing.T) {
		emitter := New()
		var order []string
		target := &mockDispatcher{tapEmit: func(string, []any) {
			order = append(order, "delegate")
		}}
		target.On("Emit", testEventName, mock.Anything).Return(true, nil)

		_, err := emitter.
			On(testEventName, func(any, ...any) error {
				order = append(order, "first")
				return nil
			}).
			Delegate(testEventName, target).
			On(testEventName, func(any, ...any) error {
				order = append(order, "last")
				return nil
			}).
			Emit(testEventName)

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "delegate", "last"}, order)
	})

	t.Run("error aborts the pass", func(t *testing.T) {
		emitter := New()
		cause := errors.New("boom")
		target := &mockDispatcher{}
		target.On("Emit", testEventName, mock.Anything).Return(true, cause)
		after := newSpyListener()

		_, err := emitter.
			Delegate(testEventName, target).
			On(testEventName, after.Listener).
			Emit(testEventName)

		assert.ErrorIs(t, err, cause)
		assert.False(t, after.called())
	})

	t.Run("unhandled error of the target", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		cause := errors.New("boom")

		_, err := emitter.Delegate(EventError, oEmitter).Emit(EventError, cause)

		assert.ErrorIs(t, err, cause)
	})

	t.Run("to itself", func(t *testing.T) {
		emitter := New()

		ok, err := emitter.Delegate(testEventName, emitter).Emit(testEventName)

		assert.True(t, ok)
		assert.ErrorIs(t, err, ErrSelfEmit)
	})

	t.Run("notifies new listeners", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		spy := newSpyListener()

		emitter.
			On(EventNewListener, spy.Listener).
			Delegate(testEventName, oEmitter)

		require.Equal(t, 1, spy.count())
		assert.Equal(t, []any{testEventName, oEmitter, emitter}, spy.last().args)
	})
}

func TestUnDelegate(t *testing.T) {
	t.Run("stops forwarding", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		lOne := newSpyListener()
		lTwo := newSpyListener()

		emitter.AddListener(testEventName, lOne.Listener)
		oEmitter.AddListener(testEventOther, lTwo.Listener)

		emitter.Delegate(testEventName, oEmitter, testEventOther)
		emitter.Delegate(testEventOther, oEmitter)

		_, _ = emitter.Emit(testEventName)

		assert.Equal(t, 1, lOne.count())
		assert.Equal(t, 1, lTwo.count())

		emitter.UnDelegate(testEventName, oEmitter)
		_, _ = emitter.Emit(testEventName)

		assert.Equal(t, 2, lOne.count())
		assert.Equal(t, 1, lTwo.count())

		_, _ = emitter.Emit(testEventOther)

		assert.Equal(t, 2, lOne.count())
		assert.Equal(t, 2, lTwo.count())
	})

	t.Run("leaves other dispatchers", func(t *testing.T) {
		emitter := New()
		kept := &mockDispatcher{}
		kept.On("Emit", "x", mock.Anything).Return(true, nil).Twice()
		removed := &mockDispatcher{}
		removed.On("Emit", "x", mock.Anything).Return(true, nil).Once()

		emitter.Delegate("x", kept).Delegate("x", removed)
		_, _ = emitter.Emit("x")

		emitter.UnDelegate("x", removed)
		_, _ = emitter.Emit("x")

		kept.AssertExpectations(t)
		removed.AssertExpectations(t)
	})

	t.Run("does not remove listeners", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		l := newSpyListener()

		emitter.On(testEventName, l.Listener).UnDelegate(testEventName, oEmitter)

		assert.Equal(t, 1, emitter.ListenerCount(testEventName))
	})

	t.Run("notifies removal", func(t *testing.T) {
		emitter := New()
		oEmitter := New()
		spy := newSpyListener()

		emitter.
			On(EventRemoveListener, spy.Listener).
			Delegate(testEventName, oEmitter).
			UnDelegate(testEventName, oEmitter)

		require.Equal(t, 1, spy.count())
		assert.Equal(t, []any{testEventName, oEmitter}, spy.last().args)
	})
}
