package execmocktest

import (
	"path/filepath"

	"github.com/ruffel/execmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optionContracts() []TestCase {
	return []TestCase{
		{
			Category:    CategoryOptions,
			Name:        "strip-eof",
			Description: "One trailing newline is stripped unless StripEOF is off",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("line\n\n", "line\n"))

				out, err := r.Stdout(t.Context(), "cat", nil)
				require.NoError(t, err)
				assert.Equal(t, "line\n", out)

				out, err = r.Stdout(t.Context(), "cat", nil, execmock.WithStripEOF(false))
				require.NoError(t, err)
				assert.Equal(t, "line\n", out)
			},
		},
		{
			Category:    CategoryOptions,
			Name:        "max-buffer",
			Description: "Output beyond MaxBuffer fails the call with ErrMaxBuffer",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("0123456789"))

				res, err := r.Run(t.Context(), "cat", nil, execmock.WithMaxBuffer(4))
				require.ErrorIs(t, err, execmock.ErrMaxBuffer)
				assert.Equal(t, "0123", res.Stdout)
				assert.True(t, res.Failed)
			},
		},
		{
			Category:    CategoryOptions,
			Name:        "prefer-local",
			Description: "PreferLocal records the local bin directory prepended to PATH",
			Run: func(t T, r *execmock.Runner) {
				dir := t.TempDir()

				_, err := r.Run(t.Context(), "tool", nil, execmock.WithDir(dir))
				require.NoError(t, err)

				call, _ := r.LastCall()
				assert.Equal(t, filepath.Join(dir, "bin"), call.LocalBin)

				_, err = r.Run(t.Context(), "tool", nil, execmock.WithPreferLocal(false))
				require.NoError(t, err)

				call, _ = r.LastCall()
				assert.Empty(t, call.LocalBin)
			},
		},
		{
			Category:    CategoryOptions,
			Name:        "input-recorded",
			Description: "Input is piped without disturbing the mock output",
			Run: func(t T, r *execmock.Runner) {
				require.NoError(t, r.Queue().SetResults("ok"))

				out, err := r.Stdout(t.Context(), "cat", nil, execmock.WithInput("payload"))
				require.NoError(t, err)
				assert.Equal(t, "ok", out)

				call, _ := r.LastCall()
				assert.Equal(t, "payload", call.Input)
			},
		},
	}
}
