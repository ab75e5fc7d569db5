package execmocktest

import (
	"github.com/ruffel/execmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coreContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryCore,
			Name:        "queued-triple",
			Description: "A queued [stdout, stderr, code] triple is returned by the next call",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults([]any{"out", "err", 1}))

				res, err := r.Run(t.Context(), "git", []string{"status"})
				require.Error(t, err)
				require.NotNil(t, res)

				assert.Equal(t, "out", res.Stdout)
				assert.Equal(t, "err", res.Stderr)
				assert.Equal(t, 1, res.ExitCode)
				assert.True(t, res.Failed)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "empty-queue-zero",
			Description: "An empty queue yields empty output and exit code 0",
			Run: func(t T, r *execmock.Runner) {
				res, err := r.Run(t.Context(), "ls", nil)
				require.NoError(t, err)

				assert.Empty(t, res.Stdout)
				assert.Empty(t, res.Stderr)
				assert.Equal(t, 0, res.ExitCode)
				assert.False(t, res.Failed)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "fifo-drain",
			Description: "Consecutive calls drain the queue in order",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("first", "second", "third"))

				for _, want := range []string{"first", "second", "third", ""} {
					out, err := r.Stdout(t.Context(), "cat", nil)
					require.NoError(t, err)
					assert.Equal(t, want, out)
				}

				assert.Equal(t, 0, r.Queue().Len())
			},
		},
		{
			Category:    CategoryCore,
			Name:        "quotes-preserved",
			Description: "Quotes embedded in programmed output survive rendering",
			Run: func(t T, r *execmock.Runner) {
				stdout := `say "hi" it's me`
				stderr := `'"'`
				require.NoError(t, r.Queue().SetResults([]any{stdout, stderr}))

				res, err := r.Run(t.Context(), "echo", nil)
				require.NoError(t, err)
				assert.Equal(t, stdout, res.Stdout)
				assert.Equal(t, stderr, res.Stderr)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "joined-cmd",
			Description: "Results and invocations carry the requested command, not the mock",
			Run: func(t T, r *execmock.Runner) {
				res, err := r.Run(t.Context(), "git", []string{"commit", "-m", "msg"})
				require.NoError(t, err)
				assert.Equal(t, "git commit -m msg", res.Cmd)

				call, ok := r.LastCall()
				require.True(t, ok)
				assert.Equal(t, "git", call.Cmd)
				assert.Equal(t, []string{"commit", "-m", "msg"}, call.Args)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "stderr-convenience",
			Description: "Stderr returns only the stderr stream",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults(map[string]any{"stdout": "o", "stderr": "e"}))

				out, err := r.Stderr(t.Context(), "tool", nil)
				require.NoError(t, err)
				assert.Equal(t, "e", out)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "shell-wraps-script",
			Description: "Shell records the platform shell invocation of the script",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("done"))

				res, err := r.Shell(t.Context(), "make build")
				require.NoError(t, err)
				assert.Equal(t, "done", res.Stdout)

				call, ok := r.LastCall()
				require.True(t, ok)

				want := r.TargetOS().ShellCommand("make build")
				assert.Equal(t, want.Cmd, call.Cmd)
				assert.Equal(t, want.Args, call.Args)
			},
		},
		{
			Category:    CategoryCore,
			Name:        "sync-matches-async",
			Description: "RunSync produces the same result shape as Run",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults([]any{"out", "err", 0}))

				res, err := r.RunSync("tool", []string{"x"})
				require.NoError(t, err)
				assert.Equal(t, "out", res.Stdout)
				assert.Equal(t, "err", res.Stderr)
				assert.Equal(t, "tool x", res.Cmd)

				call, ok := r.LastCall()
				require.True(t, ok)
				assert.True(t, call.Sync)
			},
		},
	}
}
