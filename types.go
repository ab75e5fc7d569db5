package execmock

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/shlex"
)

// Command is a binary plus its arguments.
type Command struct {
	Cmd  string   // Binary name or path to executable
	Args []string // Arguments to pass to the binary
}

// Validate checks that the command is well-formed.
// Returns an error if the command is nil or has an empty binary.
func (c *Command) Validate() error {
	if c == nil {
		return errors.New("command cannot be nil")
	}

	if strings.TrimSpace(c.Cmd) == "" {
		return fmt.Errorf("%w: command binary cannot be empty", ErrInvalidCommand)
	}

	return nil
}

// NewCommand creates a new Command with the given binary and arguments.
func NewCommand(binary string, args ...string) *Command {
	return &Command{
		Cmd:  binary,
		Args: args,
	}
}

// String returns the joined command: the binary followed by the space-joined arguments.
// Used for diagnostics only; no quoting is applied.
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Cmd
	}

	return c.Cmd + " " + strings.Join(c.Args, " ")
}

// ParseCommand parses a shell command string into a Command struct using shlex.
// It handles quoted arguments correctly.
func ParseCommand(cmdStr string) (*Command, error) {
	parts, err := shlex.Split(cmdStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty command", ErrInvalidCommand)
	}

	return &Command{
		Cmd:  parts[0],
		Args: parts[1:],
	}, nil
}

// MockResult is the programmed outcome of the next intercepted call.
type MockResult struct {
	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`
	Code   int    `yaml:"code"`
}

// Result describes a settled invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int           // -1 when terminated by a signal or never started
	Failed   bool          // Nonzero exit, signal, buffer overflow or spawn failure
	Killed   bool          // Terminated because the context was done
	Signal   string        // Terminating signal name (e.g. "SIGKILL"), empty otherwise
	Cmd      string        // Joined command of the intercepted call
	Duration time.Duration // Time taken for execution

	// Err holds the failure when Reject(false) turned it into a returned value.
	Err error
}

// Success returns true if the command completed with exit code 0 and did not fail.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.Failed
}

// TargetOS identifies the operating system whose shell renders mock commands.
type TargetOS int

const (
	// OSUnknown represents an unidentified operating system.
	OSUnknown TargetOS = iota
	// OSLinux represents the Linux kernel.
	OSLinux
	// OSWindows represents Microsoft Windows.
	OSWindows
	// OSDarwin represents macOS (Darwin).
	OSDarwin
)

func (os TargetOS) String() string {
	switch os {
	case OSLinux:
		return "linux"
	case OSWindows:
		return "windows"
	case OSDarwin:
		return "darwin"
	case OSUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ShellCommand constructs a command that runs the provided script inside the system shell.
// Returns "sh -c <script>" for UNIX-likes and "powershell ..." for Windows.
func (os TargetOS) ShellCommand(script string) *Command {
	if os == OSWindows {
		return &Command{
			Cmd:  "powershell",
			Args: []string{"-NoProfile", "-NonInteractive", "-Command", script},
		}
	}

	return &Command{
		Cmd:  "sh",
		Args: []string{"-c", script},
	}
}

// ParseTargetOS converts a typical OS string (e.g., "linux", "darwin") to a TargetOS.
func ParseTargetOS(osStr string) TargetOS {
	switch strings.ToLower(strings.TrimSpace(osStr)) {
	case "linux":
		return OSLinux
	case "windows", "windows_nt":
		return OSWindows
	case "darwin", "macos":
		return OSDarwin
	default:
		return OSUnknown
	}
}

// DetectLocalOS returns the TargetOS of the current running process.
func DetectLocalOS() TargetOS {
	return ParseTargetOS(runtime.GOOS)
}
