package execmock

import (
	"strconv"
	"strings"
)

// MaxScriptLen is the longest POSIX script Render may produce. Linux refuses
// any single exec argument of 128 KiB or more, so programmed output is bounded
// by this rather than by Options.MaxBuffer.
const MaxScriptLen = 128*1024 - 1

// Render turns a MockResult into a shell command for the target OS that prints
// Stdout, prints Stderr to the error stream and exits with Code.
// Code is reduced to the 0-255 exit status range. NUL bytes, which cannot
// appear in an argument, are emitted as escapes.
func Render(res MockResult, target TargetOS) *Command {
	code := res.Code & 0xff

	if target == OSWindows {
		return target.ShellCommand(renderPowerShell(res, code))
	}

	return target.ShellCommand(renderPOSIX(res, code))
}

func renderPOSIX(res MockResult, code int) string {
	parts := make([]string, 0, 3)

	if res.Stdout != "" {
		parts = append(parts, printfPOSIX(res.Stdout))
	}

	if res.Stderr != "" {
		parts = append(parts, printfPOSIX(res.Stderr)+" >&2")
	}

	parts = append(parts, "exit "+strconv.Itoa(code))

	return strings.Join(parts, "; ")
}

// printfPOSIX prints s verbatim. Text holding NUL goes through %b, with
// backslashes doubled and each NUL written as the octal escape \0000.
func printfPOSIX(s string) string {
	if !strings.ContainsRune(s, 0) {
		return "printf '%s' " + quotePOSIX(s)
	}

	escaped := strings.NewReplacer(`\`, `\\`, "\x00", `\0000`).Replace(s)

	return "printf '%b' " + quotePOSIX(escaped)
}

// quotePOSIX single-quotes s. Only the single quote itself needs escaping.
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func renderPowerShell(res MockResult, code int) string {
	parts := make([]string, 0, 3)

	if res.Stdout != "" {
		parts = append(parts, "[Console]::Out.Write("+quotePowerShell(res.Stdout)+")")
	}

	if res.Stderr != "" {
		parts = append(parts, "[Console]::Error.Write("+quotePowerShell(res.Stderr)+")")
	}

	parts = append(parts, "exit "+strconv.Itoa(code))

	return strings.Join(parts, "; ")
}

// quotePowerShell single-quotes s, splicing NULs in as [char]0.
func quotePowerShell(s string) string {
	chunks := strings.Split(s, "\x00")
	for i, c := range chunks {
		chunks[i] = "'" + strings.ReplaceAll(c, "'", "''") + "'"
	}

	return strings.Join(chunks, " + [char]0 + ")
}
