package execmock

import (
	"strings"
	"time"
)

// RunSync is the blocking counterpart of Run. It takes no context, buffers both
// streams and returns once the mock command has exited.
// A Stdin reader is rejected with ErrStdinStreamUnsupported before anything runs;
// use WithInput instead.
func (r *Runner) RunSync(name string, args []string, opts ...Option) (*Result, error) {
	o := r.options(opts)

	call, err := r.intercept(name, args, o, true)
	if err != nil {
		return nil, err
	}

	mock := Render(call.Mock, r.targetOS)
	execCmd := newExecCmd(mock)
	execCmd.Dir = o.Dir
	execCmd.Env = o.environ()

	if o.Input != "" {
		execCmd.Stdin = strings.NewReader(o.Input)
	}

	stdout, stderr := newCapture(o.MaxBuffer), newCapture(o.MaxBuffer)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr

	startTime := time.Now()

	if err := execCmd.Start(); err != nil {
		res := &Result{ExitCode: -1, Failed: true, Cmd: call.Joined}
		spawnErr := &SpawnError{Result: res, Err: err}
		res.Err = spawnErr

		return r.deliver(res, spawnErr, o)
	}

	waitErr := execCmd.Wait()

	res, err := settle(outcome{
		call:     call,
		opts:     o,
		state:    execCmd.ProcessState,
		waitErr:  waitErr,
		stdout:   stdout,
		stderr:   stderr,
		duration: time.Since(startTime),
	})

	return r.deliver(res, err, o)
}

// ShellSync wraps script in the target OS shell invocation, then runs it like RunSync.
func (r *Runner) ShellSync(script string, opts ...Option) (*Result, error) {
	cmd := r.targetOS.ShellCommand(script)

	return r.RunSync(cmd.Cmd, cmd.Args, opts...)
}
