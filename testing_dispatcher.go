package eventemitter

import (
	"github.com/stretchr/testify/mock"
)

type mockDispatcher struct {
	mock.Mock

	tapEmit func(name string, args []any)
}

func (m *mockDispatcher) Emit(name string, args ...any) (bool, error) {
	if m.tapEmit != nil {
		m.tapEmit(name, args)
	}
	ret := m.Called(name, args)
	return ret.Bool(0), ret.Error(1)
}
