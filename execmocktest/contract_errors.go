package execmocktest

import (
	"path/filepath"
	"strings"

	"github.com/ruffel/execmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exitErrorCode = 13

func errorContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryErrors,
			Name:        "nonzero-returns-exiterror",
			Description: "Nonzero codes must return *execmock.ExitError carrying the output",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults([]any{"partial", "boom", exitErrorCode}))

				_, err := r.Run(t.Context(), "deploy", []string{"prod"})
				require.Error(t, err)

				var exitErr *execmock.ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, exitErrorCode, exitErr.ExitCode())
				assert.Equal(t, "boom", exitErr.Result.Stderr)
				assert.Equal(t, "partial", exitErr.Result.Stdout)
				assert.True(t, strings.HasPrefix(err.Error(), "Command failed: deploy prod"))
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "reject-false-returns",
			Description: "Reject(false) returns the failure in Result.Err instead of an error",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults(exitErrorCode, exitErrorCode))

				res, err := r.Run(t.Context(), "deploy", nil, execmock.WithReject(false))
				require.NoError(t, err)
				assert.True(t, res.Failed)
				assert.Equal(t, exitErrorCode, res.ExitCode)

				var exitErr *execmock.ExitError
				require.ErrorAs(t, res.Err, &exitErr)

				res, err = r.RunSync("deploy", nil, execmock.WithReject(false))
				require.NoError(t, err)
				assert.True(t, res.Failed)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "sync-stdin-stream-rejected",
			Description: "A Stdin reader in sync mode fails before draining the queue",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("kept"))

				_, err := r.RunSync("cat", nil, execmock.WithStdin(strings.NewReader("x")))
				require.ErrorIs(t, err, execmock.ErrStdinStreamUnsupported)
				assert.Equal(t, 1, r.Queue().Len())
				assert.Empty(t, r.Calls())
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "spawn-error",
			Description: "A mock command that cannot start returns *execmock.SpawnError",
			Run: func(t T, r *execmock.Runner) {
				missing := filepath.Join(t.TempDir(), "missing")

				res, err := r.Run(t.Context(), "tool", nil, execmock.WithDir(missing))
				require.Error(t, err)
				require.NotNil(t, res)
				assert.Equal(t, -1, res.ExitCode)

				var spawnErr *execmock.SpawnError
				require.ErrorAs(t, err, &spawnErr)
				assert.True(t, spawnErr.Result.Failed)
				assert.Equal(t, "tool", spawnErr.Result.Cmd)
			},
		},
		{
			Category:    CategoryErrors,
			Name:        "empty-command",
			Description: "An empty binary is a configuration error",
			Run: func(t T, r *execmock.Runner) {
				_, err := r.Run(t.Context(), " ", nil)
				require.ErrorIs(t, err, execmock.ErrInvalidCommand)
			},
		},
	}
}
