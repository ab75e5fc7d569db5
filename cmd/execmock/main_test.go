package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := execute(args, &stdout, &stderr)

	return stdout.String(), stderr.String(), err
}

func TestRender(t *testing.T) {
	t.Parallel()

	out, _, err := run(t, "render", "--os", "linux", "--stdout", `a "b"`, "--stderr", "it's", "--code", "2")
	require.NoError(t, err)
	assert.Equal(t, `sh -c printf '%s' 'a "b"'; printf '%s' 'it'\''s' >&2; exit 2`+"\n", out)

	out, _, err = run(t, "render", "--os", "windows", "--code", "1")
	require.NoError(t, err)
	assert.Equal(t, "powershell -NoProfile -NonInteractive -Command exit 1\n", out)
}

func TestRender_InvalidCode(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "render", "--code", "300")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestPlay(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- hello\n- [\"\", boom, 3]\n"), 0o644))

	out, logs, err := run(t, "play", path, "--call", `git commit -m "a b"`, "-v")
	require.NoError(t, err)

	assert.Equal(t,
		"#0 git commit -m a b: stdout=\"hello\" stderr=\"\" code=0 failed=false\n"+
			"#1 git commit -m a b: stdout=\"\" stderr=\"boom\" code=3 failed=true\n",
		out,
	)
	assert.Contains(t, logs, "mock invocation")
}

func TestPlay_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "play", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, _, err = run(t, "play", "whatever.yaml", "--call", `unterminated "quote`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse command")

	_, _, err = run(t, "play")
	require.Error(t, err)
}
