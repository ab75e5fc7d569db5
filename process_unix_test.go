//go:build unix

package execmock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startLongRunning starts a real sleep through the same lifecycle a mock command uses.
func startLongRunning(t *testing.T, ctx context.Context, opts ...Option) *Process {
	t.Helper()

	p := &Process{
		runner: New(NewQueue()),
		call:   Invocation{Cmd: "sleep", Args: []string{"5"}, Joined: "sleep 5"},
		opts:   buildOptions(opts),
	}

	require.NoError(t, p.start(ctx, NewCommand("sleep", "5")))

	return p
}

func TestProcess_ContextCancelKills(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	p := startLongRunning(t, ctx)

	time.AfterFunc(50*time.Millisecond, cancel)

	res, err := p.Wait()
	require.ErrorIs(t, err, context.Canceled)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)

	assert.True(t, res.Killed)
	assert.True(t, res.Failed)
	assert.Equal(t, "SIGKILL", res.Signal)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, res.Duration, 5*time.Second)
	assert.Equal(t, "sleep 5", res.Cmd)
}

func TestProcess_CloseKillsRunning(t *testing.T) {
	t.Parallel()

	p := startLongRunning(t, context.Background(), WithReject(false))

	require.NoError(t, p.Close())

	select {
	case <-p.Done():
	default:
		t.Fatal("Close returned before the process settled")
	}

	res, err := p.Wait()
	require.NoError(t, err)
	assert.False(t, res.Killed)
	assert.True(t, res.Failed)
	assert.Equal(t, "SIGKILL", res.Signal)
}

func TestProcess_CancelAfterExitNotKilled(t *testing.T) {
	t.Parallel()

	r := New(NewQueue())
	require.NoError(t, r.Queue().SetResults("done"))

	ctx, cancel := context.WithCancel(context.Background())

	proc, err := r.Start(ctx, "tool", nil)
	require.NoError(t, err)

	<-proc.Done()
	cancel()

	res, err := proc.Wait()
	require.NoError(t, err)
	assert.False(t, res.Killed)
	assert.False(t, res.Failed)
	assert.Equal(t, "done", res.Stdout)
}
