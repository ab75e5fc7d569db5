//go:build unix

package execmock

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// killProcessGroup kills the process group with the given PID.
func killProcessGroup(pid int) error {
	return unix.Kill(-pid, unix.SIGKILL)
}

// setProcessGroup sets the process group for the given command.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// exitSignal returns the name of the signal that terminated the process, if any.
func exitSignal(state *os.ProcessState) string {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}

	return unix.SignalName(ws.Signal())
}
