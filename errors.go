package execmock

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommand indicates an intercepted call without a usable binary.
var ErrInvalidCommand = errors.New("invalid command")

// ErrInvalidResult indicates a queued item that cannot be normalized into a MockResult.
var ErrInvalidResult = errors.New("invalid mock result")

// ErrStdinStreamUnsupported is returned when a Stdin reader is passed to a synchronous call.
var ErrStdinStreamUnsupported = errors.New("the Stdin option cannot be a stream in sync mode")

// ErrMaxBuffer indicates an output stream exceeded Options.MaxBuffer.
var ErrMaxBuffer = errors.New("maxBuffer exceeded")

// ExitError is the synthesized failure of a call that ran to completion but
// exited nonzero, was killed by a signal, or overflowed its output buffer.
type ExitError struct {
	Result *Result
	Cause  error
}

func (e *ExitError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Command failed: %s", e.Result.Cmd)

	switch {
	case e.Cause != nil:
		fmt.Fprintf(&b, " (%v)", e.Cause)
	case e.Result.Signal != "":
		fmt.Fprintf(&b, " (signal %s)", e.Result.Signal)
	default:
		fmt.Fprintf(&b, " (exit code %d)", e.Result.ExitCode)
	}

	if e.Result.Stderr != "" {
		b.WriteString("\n" + e.Result.Stderr)
	}

	if e.Result.Stdout != "" {
		b.WriteString("\n" + e.Result.Stdout)
	}

	return b.String()
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code of the failed call.
func (e *ExitError) ExitCode() int {
	return e.Result.ExitCode
}

// SpawnError reports that the underlying mechanism could not start the mock command
// (missing shell, bad working directory, ...).
type SpawnError struct {
	Result *Result
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn error executing %q: %v", e.Result.Cmd, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
