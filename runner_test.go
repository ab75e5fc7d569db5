package execmock

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(t *testing.T, opts ...RunnerOption) *Runner {
	t.Helper()

	if runtime.GOOS == osWindows {
		t.Skip("requires a POSIX shell")
	}

	return New(NewQueue(), opts...)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name       string
		results    []any
		wantStdout string
		wantStderr string
		wantCode   int
		wantErr    bool
	}{
		{
			name:       "queued triple",
			results:    []any{[]any{"out", "err", 1}},
			wantStdout: "out",
			wantStderr: "err",
			wantCode:   1,
			wantErr:    true,
		},
		{
			name: "empty queue",
		},
		{
			name:       "named fields",
			results:    []any{map[string]any{"stdout": "hello\n", "code": 0}},
			wantStdout: "hello",
		},
		{
			name:       "embedded quotes",
			results:    []any{[]any{`"quoted" 'single'`, `\"`}},
			wantStdout: `"quoted" 'single'`,
			wantStderr: `\"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRunner(t)
			require.NoError(t, r.Queue().SetResults(tt.results...))

			res, err := r.Run(ctx, "git", []string{"fetch", "origin"})
			if tt.wantErr {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Same(t, res, exitErr.Result)
			} else {
				require.NoError(t, err)
			}

			require.NotNil(t, res)
			assert.Equal(t, tt.wantStdout, res.Stdout)
			assert.Equal(t, tt.wantStderr, res.Stderr)
			assert.Equal(t, tt.wantCode, res.ExitCode)
			assert.Equal(t, tt.wantErr, res.Failed)
			assert.Equal(t, "git fetch origin", res.Cmd)
			assert.False(t, res.Killed)
			assert.Empty(t, res.Signal)
		})
	}
}

func TestRunner_FIFOAcrossVariants(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Queue().SetResults("one", "two", "three", "four", []any{"", "five"}))

	out, err := r.Stdout(ctx, "a", nil)
	require.NoError(t, err)
	assert.Equal(t, "one", out)

	res, err := r.RunSync("b", nil)
	require.NoError(t, err)
	assert.Equal(t, "two", res.Stdout)

	res, err = r.Shell(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "three", res.Stdout)

	res, err = r.ShellSync("d")
	require.NoError(t, err)
	assert.Equal(t, "four", res.Stdout)

	errOut, err := r.Stderr(ctx, "e", nil)
	require.NoError(t, err)
	assert.Equal(t, "five", errOut)

	calls := r.Calls()
	require.Len(t, calls, 5)
	assert.Equal(t, "a", calls[0].Cmd)
	assert.True(t, calls[1].Sync)
	assert.Equal(t, "sh -c c", calls[2].Joined)
	assert.Equal(t, "three", calls[2].Mock.Stdout)
}

func TestRunner_Spawn(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	require.NoError(t, r.Queue().SetResults("spawned"))

	//nolint:staticcheck // deprecated alias still has to work
	res, err := r.Spawn(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "spawned", res.Stdout)
}

func TestRunner_StdoutOnFailure(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	require.NoError(t, r.Queue().SetResults([]any{"partial", "", 2}))

	out, err := r.Stdout(context.Background(), "x", nil)
	require.Error(t, err)
	assert.Equal(t, "partial", out)
}

func TestRunner_ConfigErrorsKeepQueue(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	require.NoError(t, r.Queue().SetResults("kept"))

	_, err := r.Run(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrInvalidCommand)

	_, err = r.RunSync("cat", nil, WithStdin(strings.NewReader("stream")), WithReject(false))
	require.ErrorIs(t, err, ErrStdinStreamUnsupported)

	assert.Equal(t, 1, r.Queue().Len())
	assert.Empty(t, r.Calls())
}

func TestRunner_SpawnError(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, "x", nil)

	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, -1, spawnErr.Result.ExitCode)

	res, err := r.Run(ctx, "x", nil, WithReject(false))
	require.NoError(t, err)
	assert.True(t, res.Failed)
	require.ErrorIs(t, res.Err, context.Canceled)
	// Start has no Result to carry the failure, so Reject does not apply
	proc, err := r.Start(ctx, "x", nil, WithReject(false))
	assert.Nil(t, proc)
	require.ErrorAs(t, err, &spawnErr)
}

func TestRunner_Options(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("encoding", func(t *testing.T) {
		t.Parallel()

		r := newTestRunner(t)
		require.NoError(t, r.Queue().SetResults("a\xffb", "a\xffb"))

		out, err := r.Stdout(ctx, "x", nil)
		require.NoError(t, err)
		assert.Equal(t, "a\uFFFDb", out)

		out, err = r.Stdout(ctx, "x", nil, WithEncoding(EncodingRaw))
		require.NoError(t, err)
		assert.Equal(t, "a\xffb", out)
	})

	t.Run("crlf stripped", func(t *testing.T) {
		t.Parallel()

		r := newTestRunner(t)
		require.NoError(t, r.Queue().SetResults([]any{"win\r\n", "err\n"}))

		res, err := r.Run(ctx, "x", nil)
		require.NoError(t, err)
		assert.Equal(t, "win", res.Stdout)
		assert.Equal(t, "err", res.Stderr)
	})

	t.Run("max buffer on stderr", func(t *testing.T) {
		t.Parallel()

		r := newTestRunner(t)
		require.NoError(t, r.Queue().SetResults([]any{"ok", "too long"}))

		res, err := r.RunSync("x", nil, WithMaxBuffer(3))
		require.ErrorIs(t, err, ErrMaxBuffer)
		assert.Contains(t, err.Error(), "stderr maxBuffer exceeded")
		assert.Equal(t, "ok", res.Stdout)
		assert.Equal(t, "too", res.Stderr)
	})

	t.Run("env and input recorded", func(t *testing.T) {
		t.Parallel()

		r := newTestRunner(t)

		_, err := r.Run(ctx, "x", nil,
			WithEnv("FOO=bar"),
			WithStdin(strings.NewReader("streamed")),
			WithLocalBinDir("/opt/tools/bin"),
		)
		require.NoError(t, err)

		call, ok := r.LastCall()
		require.True(t, ok)
		assert.Equal(t, []string{"FOO=bar"}, call.Env)
		assert.Equal(t, "/opt/tools/bin", call.LocalBin)
	})

	t.Run("runner defaults", func(t *testing.T) {
		t.Parallel()

		r := newTestRunner(t, WithDefaults(WithReject(false)))
		require.NoError(t, r.Queue().SetResults(5, 5))

		res, err := r.Run(ctx, "x", nil)
		require.NoError(t, err)
		assert.Equal(t, 5, res.ExitCode)

		// Per-call options win over defaults
		_, err = r.Run(ctx, "x", nil, WithReject(true))
		require.Error(t, err)
	})
}

func TestRunner_Environ(t *testing.T) {
	if runtime.GOOS == osWindows {
		t.Skip("PATH layout differs on Windows")
	}

	t.Setenv("PATH", "/usr/bin")

	o := buildOptions([]Option{WithLocalBinDir("/work/bin"), WithEnv("A=1")})
	env := o.environ()

	assert.Contains(t, env, "A=1")
	assert.Equal(t, "PATH=/work/bin:/usr/bin", env[len(env)-1])

	o = buildOptions([]Option{WithPreferLocal(false)})
	assert.NotContains(t, o.environ(), "PATH=/work/bin:/usr/bin")
}

func TestRunner_Logger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newTestRunner(t, WithLogger(logger))
	require.NoError(t, r.Queue().SetResults(3))

	_, err := r.Run(context.Background(), "make", []string{"test"})
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="mock invocation"`)
	assert.Contains(t, out, `cmd="make test"`)
	assert.Contains(t, out, "mock_code=3")
	assert.Contains(t, out, "exit_code=3")
}

func TestProcess_Lifecycle(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	require.NoError(t, r.Queue().SetResults([]any{"bg", "", 4}))

	proc, err := r.Start(context.Background(), "server", []string{"--port", "80"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = proc.Close() })

	assert.Equal(t, "server --port 80", proc.Invocation().Joined)

	res, err := proc.Wait()
	require.Error(t, err)
	assert.Equal(t, "bg", res.Stdout)
	assert.Equal(t, 4, res.ExitCode)

	// Wait is repeatable
	again, againErr := proc.Wait()
	assert.Same(t, res, again)
	assert.Equal(t, err, againErr)

	<-proc.Done()
	require.Error(t, proc.Signal(syscall.SIGTERM))

	require.NoError(t, proc.Close())
	require.NoError(t, proc.Close())
}

func TestProcess_RejectFalse(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t)
	require.NoError(t, r.Queue().SetResults(1))

	proc, err := r.Start(context.Background(), "x", nil, WithReject(false))
	require.NoError(t, err)

	t.Cleanup(func() { _ = proc.Close() })

	res, err := proc.Wait()
	require.NoError(t, err)
	assert.True(t, res.Failed)

	var exitErr *ExitError
	assert.True(t, errors.As(res.Err, &exitErr))
}
