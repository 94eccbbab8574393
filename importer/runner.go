package importer

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"

	"context"
	"os"
	"os/exec"
	"strings"
)

// Runner executes an external tool and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// CommandError reports a tool that could not be started or exited non-zero.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	if IsSpawnFailure(e) {
		return "failed to run " + e.Command + ": " + e.Err.Error()
	}
	return e.Command + " failed: " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsSpawnFailure reports whether err comes from a tool that never started, as
// opposed to one that exited with a non-zero status.
func IsSpawnFailure(err error) bool {
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		return false
	}
	var exitErr *exec.ExitError
	return !errors.As(cmdErr.Err, &exitErr)
}

func FormatCommand(name string, args ...string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

// ExecRunner runs tools as subprocesses sharing our stdin, stdout and stderr,
// so their progress output reaches the operator untouched.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	command := FormatCommand(name, args...)
	sigolo.Infof("- Running %s", command)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &CommandError{Command: command, Err: err}
	}
	return nil
}
