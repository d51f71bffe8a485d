// Package drives implements the network drive mapping engine.
// This module handles external command execution for the mount tooling.
package drives

import (
	"bytes"
	"os/exec"
	"runtime"
	"strings"
)

// Runner executes a single command line through the platform shell and
// captures its output. Implementations never report non-zero exit codes as
// errors: the mount tooling writes human-readable errors to stderr and leaves
// it empty on success, so callers classify results by stderr content alone.
type Runner interface {
	Run(command string) (stdout string, stderr string)
}

// ShellRunner executes command lines via cmd.exe (or sh off Windows).
type ShellRunner struct{}

// Run executes the command line and returns both streams, trimmed.
// If the process cannot be spawned at all, stdout is empty and stderr carries
// a synthetic description of the fault so the caller's normal stderr handling
// still applies.
func (ShellRunner) Run(command string) (string, string) {
	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := strings.TrimSpace(stdout.String())
	errText := strings.TrimSpace(stderr.String())

	// Non-zero exits surface through stderr; only a spawn fault with nothing
	// on stderr needs a synthetic error string.
	if err != nil && errText == "" {
		if _, ok := err.(*exec.ExitError); !ok {
			return "", err.Error()
		}
	}

	return out, errText
}
