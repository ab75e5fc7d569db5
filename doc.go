// Package execmock provides a test-time substitute for running commands.
//
// # Interception
//
// A Runner accepts calls shaped like a real command runner (name, args, options),
// records them, discards the requested command and executes a trivial shell
// command instead. That command prints the next queued MockResult and exits with
// its code, so tests assert on invocations without touching the real binaries.
//
// # Queue
//
// Results are programmed on a Queue owned by the test:
//
//	q := execmock.NewQueue()
//	_ = q.SetResults([]any{"out", "err", 1})
//	r := execmock.New(q)
//	res, err := r.Run(ctx, "git", []string{"status"})
//
// An empty queue yields empty output and exit code 0.
//
// # Options
//
// Options mirror a real runner: buffer limits, local bin preference, encoding,
// stdin input, trailing newline stripping and `Reject(false)` to return failures
// instead of erroring.
package execmock

import "context"

// Executor is the call surface code under test should depend on.
// *Runner satisfies it.
type Executor interface {
	// Run executes a command and waits for it, capturing both streams.
	Run(ctx context.Context, name string, args []string, opts ...Option) (*Result, error)

	// RunSync is the blocking, context-free variant of Run.
	RunSync(name string, args []string, opts ...Option) (*Result, error)

	// Shell runs a script through the target OS shell.
	Shell(ctx context.Context, script string, opts ...Option) (*Result, error)
}
