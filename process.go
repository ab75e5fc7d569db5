package execmock

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// stdinWaitDelay bounds how long Wait lingers on a stdin copy the mock never reads.
const stdinWaitDelay = 100 * time.Millisecond

// Process is a started mock command.
// It wraps `*exec.Cmd` to provide waiting, signaling and result retrieval.
type Process struct {
	runner  *Runner
	call    Invocation
	opts    Options
	execCmd *exec.Cmd

	stdout, stderr *capture
	killed         atomic.Bool
	ctxErr         error
	killMu         sync.Mutex
	exited         bool
	stopCleanup    func() bool
	startTime      time.Time

	// Result related fields
	result *Result
	err    error
	mu     sync.Mutex
	done   chan struct{}
	closed bool
}

// Invocation returns the intercepted call this process stands in for.
func (p *Process) Invocation() Invocation {
	return p.call
}

func (p *Process) start(ctx context.Context, cmd *Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.execCmd = newExecCmd(cmd)
	p.execCmd.Dir = p.opts.Dir
	p.execCmd.Env = p.opts.environ()

	switch {
	case p.opts.Stdin != nil:
		p.execCmd.Stdin = p.opts.Stdin
		p.execCmd.WaitDelay = stdinWaitDelay
	case p.opts.Input != "":
		p.execCmd.Stdin = strings.NewReader(p.opts.Input)
	}

	// Create a new Process Group to allow killing the entire tree (children) later.
	setProcessGroup(p.execCmd)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)

		return err
	}

	p.execCmd.Stdout = stdoutW
	p.execCmd.Stderr = stderrW
	p.stdout = newCapture(p.opts.MaxBuffer)
	p.stderr = newCapture(p.opts.MaxBuffer)
	p.done = make(chan struct{})
	p.startTime = time.Now()

	err = p.execCmd.Start()

	// The child holds its own copies; ours must go so readers see EOF on exit.
	closeAll(stdoutW, stderrW)

	if err != nil {
		closeAll(stdoutR, stderrR)

		return err
	}

	pid := p.execCmd.Process.Pid
	p.stopCleanup = context.AfterFunc(ctx, func() {
		p.killMu.Lock()
		defer p.killMu.Unlock()

		// The group is gone once Wait has reaped the child.
		if p.exited {
			return
		}

		p.killed.Store(true)
		_ = killProcessGroup(pid)
	})

	go p.await(ctx, stdoutR, stderrR)

	return nil
}

// await settles stdout, stderr and the exit status concurrently.
func (p *Process) await(ctx context.Context, stdoutR, stderrR *os.File) {
	defer close(p.done)

	var (
		g       errgroup.Group
		waitErr error
	)

	g.Go(func() error {
		_, err := io.Copy(p.stdout, stdoutR)

		return err
	})
	g.Go(func() error {
		_, err := io.Copy(p.stderr, stderrR)

		return err
	})
	g.Go(func() error {
		err := p.execCmd.Wait()

		p.killMu.Lock()
		p.exited = true
		p.killMu.Unlock()

		waitErr = err

		return nil
	})

	copyErr := g.Wait()
	duration := time.Since(p.startTime)

	closeAll(stdoutR, stderrR)
	p.stopCleanup()

	// A kill that raced a clean exit did not terminate anything.
	state := p.execCmd.ProcessState
	killed := p.killed.Load() && (state == nil || !state.Success())

	if killed {
		p.ctxErr = ctx.Err()
	}

	res, err := settle(outcome{
		call:     p.call,
		opts:     p.opts,
		state:    state,
		waitErr:  firstErr(waitErr, copyErr),
		stdout:   p.stdout,
		stderr:   p.stderr,
		killed:   killed,
		ctxErr:   p.ctxErr,
		duration: duration,
	})

	p.mu.Lock()
	p.result, p.err = p.runner.deliver(res, err, p.opts)
	p.mu.Unlock()
}

// Wait blocks until the mock command has exited and both streams are drained.
// It returns an *ExitError on nonzero exit or signal unless Reject(false) was given.
func (p *Process) Wait() (*Result, error) {
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.result, p.err
}

// Done is closed once the process has settled.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Signal sends an OS signal to the running mock command.
func (p *Process) Signal(sig os.Signal) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("cannot signal process %q: already closed", p.call.Joined)
	}

	select {
	case <-p.done:
		return fmt.Errorf("cannot signal process %q: already exited", p.call.Joined)
	default:
	}

	return p.execCmd.Process.Signal(sig)
}

// Close releases resources associated with the process.
// If the process is still running, it will be killed to ensure cleanup.
func (p *Process) Close() error {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()

		return nil
	}

	p.closed = true
	p.mu.Unlock()

	// Kill and wait outside of lock to avoid deadlock
	select {
	case <-p.done:
	default:
		if p.execCmd.Process != nil && p.execCmd.Process.Pid > 0 {
			_ = killProcessGroup(p.execCmd.Process.Pid)
		}

		<-p.done
	}

	return nil
}

// outcome is everything needed to turn a finished exec.Cmd into a Result.
type outcome struct {
	call     Invocation
	opts     Options
	state    *os.ProcessState
	waitErr  error
	stdout   *capture
	stderr   *capture
	killed   bool
	ctxErr   error
	duration time.Duration
}

func settle(o outcome) (*Result, error) {
	res := &Result{
		Stdout:   o.opts.decode(o.stdout.Bytes()),
		Stderr:   o.opts.decode(o.stderr.Bytes()),
		Killed:   o.killed,
		Cmd:      o.call.Joined,
		Duration: o.duration,
	}

	if o.state != nil {
		res.ExitCode = o.state.ExitCode()
		res.Signal = exitSignal(o.state)
	}

	var cause error

	switch {
	case o.stdout.Exceeded():
		cause = fmt.Errorf("stdout %w", ErrMaxBuffer)
	case o.stderr.Exceeded():
		cause = fmt.Errorf("stderr %w", ErrMaxBuffer)
	case o.killed && o.ctxErr != nil:
		cause = o.ctxErr
	case o.waitErr != nil && !isExitStatus(o.waitErr):
		cause = o.waitErr
	}

	if res.ExitCode == 0 && res.Signal == "" && cause == nil {
		return res, nil
	}

	res.Failed = true
	err := &ExitError{Result: res, Cause: cause}
	res.Err = err

	return res, err
}

// isExitStatus reports whether err only describes a nonzero exit or signal,
// which the Result already carries.
func isExitStatus(err error) bool {
	var exitErr *exec.ExitError

	return errors.As(err, &exitErr) || errors.Is(err, exec.ErrWaitDelay)
}

func newExecCmd(cmd *Command) *exec.Cmd {
	return exec.Command(cmd.Cmd, cmd.Args...)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func closeAll(closers ...io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

// capture buffers up to limit bytes and silently drops the rest, so the child
// never blocks on a full pipe.
type capture struct {
	mu       sync.Mutex
	buf      []byte
	limit    int
	exceeded bool
}

func newCapture(limit int) *capture {
	return &capture{limit: limit}
}

func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room := c.limit - len(c.buf)
	if len(p) > room {
		c.exceeded = true
		c.buf = append(c.buf, p[:max(room, 0)]...)

		return len(p), nil
	}

	c.buf = append(c.buf, p...)

	return len(p), nil
}

func (c *capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf
}

func (c *capture) Exceeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.exceeded
}
