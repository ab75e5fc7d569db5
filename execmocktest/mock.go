package execmocktest

import (
	"context"

	"github.com/ruffel/execmock"
	"github.com/stretchr/testify/mock"
)

// MockExecutor implements execmock.Executor using testify/mock.
type MockExecutor struct {
	mock.Mock
}

var _ execmock.Executor = (*MockExecutor)(nil)

// Run mocks running a command to completion.
func (m *MockExecutor) Run(ctx context.Context, name string, args []string, opts ...execmock.Option) (*execmock.Result, error) {
	// Variadic capture fix for testify
	ret := m.Called(ctx, name, args, opts)

	return result(ret)
}

// RunSync mocks the blocking variant.
func (m *MockExecutor) RunSync(name string, args []string, opts ...execmock.Option) (*execmock.Result, error) {
	ret := m.Called(name, args, opts)

	return result(ret)
}

// Shell mocks running a shell script.
func (m *MockExecutor) Shell(ctx context.Context, script string, opts ...execmock.Option) (*execmock.Result, error) {
	ret := m.Called(ctx, script, opts)

	return result(ret)
}

func result(ret mock.Arguments) (*execmock.Result, error) {
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}

	return ret.Get(0).(*execmock.Result), ret.Error(1)
}
