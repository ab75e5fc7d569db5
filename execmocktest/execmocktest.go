// Package execmocktest wires execmock into Go tests.
//
// New gives every test its own Runner and Queue, empty when the test starts
// and reset when it ends. Verify runs the behavioral contract a Runner
// configuration must satisfy. MockExecutor is a testify/mock double of
// execmock.Executor for tests that only need call expectations.
package execmocktest

import (
	"testing"

	"github.com/ruffel/execmock"
	"github.com/stretchr/testify/require"
)

// New returns a Runner with a fresh, empty queue that is reset on test cleanup.
func New(tb testing.TB, opts ...execmock.RunnerOption) *execmock.Runner {
	tb.Helper()

	q := execmock.NewQueue()
	tb.Cleanup(q.Reset)

	return execmock.New(q, opts...)
}

// SetResults loads items into the runner's queue, failing the test on bad input.
func SetResults(tb testing.TB, r *execmock.Runner, items ...any) {
	tb.Helper()

	require.NoError(tb, r.Queue().SetResults(items...))
}
