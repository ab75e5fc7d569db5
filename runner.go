package execmock

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// Invocation records an intercepted call.
type Invocation struct {
	Cmd      string   // Requested binary
	Args     []string // Requested arguments
	Joined   string   // Cmd and Args joined with spaces
	Dir      string   // Working directory option
	Env      []string // Extra environment option
	LocalBin string   // Directory prepended to PATH, empty when PreferLocal is off
	Input    string   // Input option
	Sync     bool     // Made through RunSync or ShellSync
	Mock     MockResult
}

// Runner intercepts command invocations and executes queued mock results instead.
// Safe for concurrent use, but concurrent calls sharing one Queue drain it in an
// unspecified order.
type Runner struct {
	queue    *Queue
	targetOS TargetOS
	logger   *slog.Logger
	defaults []Option

	mu    sync.Mutex
	calls []Invocation
}

var _ Executor = (*Runner)(nil)

// New creates a Runner draining q. A nil q gets a fresh queue.
func New(q *Queue, opts ...RunnerOption) *Runner {
	cfg := runnerConfig{
		targetOS: DetectLocalOS(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if q == nil {
		q = NewQueue()
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		queue:    q,
		targetOS: cfg.targetOS,
		logger:   cfg.logger,
		defaults: cfg.defaults,
	}
}

// Queue returns the queue this runner drains.
func (r *Runner) Queue() *Queue {
	return r.queue
}

// TargetOS returns the shell dialect mock commands are rendered for.
func (r *Runner) TargetOS() TargetOS {
	return r.targetOS
}

// Run intercepts the call, executes the next mock result and waits for it.
// stdout, stderr and exit are awaited concurrently and combined once all settle.
func (r *Runner) Run(ctx context.Context, name string, args []string, opts ...Option) (*Result, error) {
	o := r.options(opts)

	proc, err := r.start(ctx, name, args, o)
	if err != nil {
		var spawnErr *SpawnError
		if errors.As(err, &spawnErr) {
			return r.deliver(spawnErr.Result, err, o)
		}

		return nil, err
	}

	return proc.Wait()
}

// Spawn is an alias of Run.
//
// Deprecated: use Run.
func (r *Runner) Spawn(ctx context.Context, name string, args []string, opts ...Option) (*Result, error) {
	return r.Run(ctx, name, args, opts...)
}

// Start intercepts the call and starts the mock command asynchronously.
// Caller must Wait on or Close the returned Process.
// A mock command that cannot start is always returned as a *SpawnError, even
// with Reject(false); Reject only applies to the Result delivered by Wait.
func (r *Runner) Start(ctx context.Context, name string, args []string, opts ...Option) (*Process, error) {
	return r.start(ctx, name, args, r.options(opts))
}

// Stdout runs the call and returns only its stdout.
func (r *Runner) Stdout(ctx context.Context, name string, args []string, opts ...Option) (string, error) {
	res, err := r.Run(ctx, name, args, opts...)
	if res == nil {
		return "", err
	}

	return res.Stdout, err
}

// Stderr runs the call and returns only its stderr.
func (r *Runner) Stderr(ctx context.Context, name string, args []string, opts ...Option) (string, error) {
	res, err := r.Run(ctx, name, args, opts...)
	if res == nil {
		return "", err
	}

	return res.Stderr, err
}

// Shell wraps script in the target OS shell invocation, then runs it like Run.
func (r *Runner) Shell(ctx context.Context, script string, opts ...Option) (*Result, error) {
	cmd := r.targetOS.ShellCommand(script)

	return r.Run(ctx, cmd.Cmd, cmd.Args, opts...)
}

// Calls returns a copy of the recorded invocations, oldest first.
func (r *Runner) Calls() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.calls)
}

// LastCall returns the most recent invocation.
func (r *Runner) LastCall() (Invocation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.calls) == 0 {
		return Invocation{}, false
	}

	return r.calls[len(r.calls)-1], true
}

func (r *Runner) start(ctx context.Context, name string, args []string, o Options) (*Process, error) {
	call, err := r.intercept(name, args, o, false)
	if err != nil {
		return nil, err
	}

	proc := &Process{
		runner: r,
		call:   call,
		opts:   o,
	}

	if err := proc.start(ctx, Render(call.Mock, r.targetOS)); err != nil {
		res := &Result{ExitCode: -1, Failed: true, Cmd: call.Joined}
		spawnErr := &SpawnError{Result: res, Err: err}
		res.Err = spawnErr

		r.logger.Debug("mock spawn failed", "cmd", call.Joined, "error", err)

		return nil, spawnErr
	}

	return proc, nil
}

// intercept validates the call, records it and drains one queued result.
// Configuration errors return before the queue is touched.
func (r *Runner) intercept(name string, args []string, o Options, blocking bool) (Invocation, error) {
	cmd := NewCommand(name, args...)
	if err := cmd.Validate(); err != nil {
		return Invocation{}, err
	}

	if blocking && o.Stdin != nil {
		return Invocation{}, ErrStdinStreamUnsupported
	}

	call := Invocation{
		Cmd:      name,
		Args:     slices.Clone(args),
		Joined:   cmd.String(),
		Dir:      o.Dir,
		Env:      slices.Clone(o.Env),
		LocalBin: o.localBin(),
		Input:    o.Input,
		Sync:     blocking,
		Mock:     r.queue.Next(),
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()

	r.logger.Debug("mock invocation",
		"cmd", call.Joined,
		"mock_code", call.Mock.Code,
		"sync", blocking,
	)

	return call, nil
}

func (r *Runner) options(opts []Option) Options {
	if len(r.defaults) == 0 {
		return buildOptions(opts)
	}

	return buildOptions(append(slices.Clone(r.defaults), opts...))
}

// deliver applies the Reject option to a settled call.
func (r *Runner) deliver(res *Result, err error, o Options) (*Result, error) {
	r.logger.Debug("mock invocation settled",
		"cmd", res.Cmd,
		"exit_code", res.ExitCode,
		"failed", res.Failed,
		"duration", res.Duration,
	)

	if err != nil && !o.Reject {
		return res, nil
	}

	return res, err
}
