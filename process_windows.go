//go:build windows

package execmock

import (
	"os"
	"os/exec"
	"strconv"
)

// killProcessGroup kills the process tree rooted at pid.
func killProcessGroup(pid int) error {
	return exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(pid)).Run()
}

// setProcessGroup is a no-op; taskkill /T walks the tree instead.
func setProcessGroup(_ *exec.Cmd) {}

// exitSignal always returns "": Windows processes are not terminated by signals.
func exitSignal(_ *os.ProcessState) string {
	return ""
}
