// Package collector runs a generator command repeatedly and gathers the
// mnemonic phrases it prints.
package collector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout marks an invocation that exceeded its deadline.
var ErrTimeout = errors.New("invocation timed out")

// ErrCommandNotFound marks a shell exit status meaning the command could not
// be found or executed.
var ErrCommandNotFound = errors.New("command not found or not executable")

// Output is what one invocation printed.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes the generator command once.
type Runner interface {
	Run(ctx context.Context, command string) (Output, error)
}

// ShellRunner runs the command through a POSIX shell.
type ShellRunner struct {
	Shell string
}

// NewShellRunner returns a runner using sh.
func NewShellRunner() ShellRunner {
	return ShellRunner{Shell: "sh"}
}

// Run executes command with `<shell> -c`. A non-zero exit status is not an
// error unless the shell reports the command itself as missing (126/127).
// The process group is killed when ctx is done and the shell is always
// reaped before Run returns.
func (r ShellRunner) Run(ctx context.Context, command string) (Output, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	killProcessGroup(cmd)
	// Grandchildren may keep the pipes open after the shell is killed.
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return out, ErrTimeout
		}
		return out, ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode == 126 || out.ExitCode == 127 {
			return out, fmt.Errorf("%w: exit status %d", ErrCommandNotFound, out.ExitCode)
		}
		return out, nil
	}
	if err != nil {
		return out, err
	}
	return out, nil
}
