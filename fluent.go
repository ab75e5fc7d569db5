package execmock

import (
	"context"
	"io"
)

// Builder provides a fluent API for constructing intercepted calls.
type Builder struct {
	cmd  *Command
	opts []Option
}

// Cmd creates a new Builder for a command with the given name/path.
func Cmd(binary string) *Builder {
	return &Builder{
		cmd: &Command{
			Cmd: binary,
		},
	}
}

// Arg adds a single argument.
func (b *Builder) Arg(arg string) *Builder {
	b.cmd.Args = append(b.cmd.Args, arg)
	return b
}

// Args adds multiple arguments.
func (b *Builder) Args(args ...string) *Builder {
	b.cmd.Args = append(b.cmd.Args, args...)
	return b
}

// Env adds an environment variable in "KEY=VALUE" format.
func (b *Builder) Env(key, value string) *Builder {
	b.opts = append(b.opts, WithEnv(key+"="+value))
	return b
}

// Dir sets the working directory.
func (b *Builder) Dir(dir string) *Builder {
	b.opts = append(b.opts, WithDir(dir))
	return b
}

// Stdin sets the standard input stream.
func (b *Builder) Stdin(r io.Reader) *Builder {
	b.opts = append(b.opts, WithStdin(r))
	return b
}

// Input sets the standard input from a string.
func (b *Builder) Input(s string) *Builder {
	b.opts = append(b.opts, WithInput(s))
	return b
}

// With appends arbitrary options.
func (b *Builder) With(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build returns the constructed Command.
func (b *Builder) Build() *Command {
	return b.cmd
}

// Options returns the options collected so far, resolved against the defaults.
func (b *Builder) Options() Options {
	return buildOptions(b.opts)
}

// Run executes the call on r.
func (b *Builder) Run(ctx context.Context, r Executor) (*Result, error) {
	return r.Run(ctx, b.cmd.Cmd, b.cmd.Args, b.opts...)
}

// RunSync executes the call on r without a context.
func (b *Builder) RunSync(r Executor) (*Result, error) {
	return r.RunSync(b.cmd.Cmd, b.cmd.Args, b.opts...)
}

// Start starts the call on r asynchronously.
func (b *Builder) Start(ctx context.Context, r *Runner) (*Process, error) {
	return r.Start(ctx, b.cmd.Cmd, b.cmd.Args, b.opts...)
}
