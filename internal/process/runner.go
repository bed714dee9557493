// Package process runs external commands in their own process group so a
// timeout or cancellation terminates the whole tree.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout is returned when the context expires before the command exits.
var ErrTimeout = errors.New("command timed out")

// DefaultWaitDelay bounds how long Run waits for output pipes after the
// process group has been killed.
const DefaultWaitDelay = 2 * time.Second

// Runner abstracts command execution to enable testing without real subprocesses.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements Runner using os/exec.
type ExecRunner struct {
	WaitDelay time.Duration
}

// Run starts name with args and waits for it. When ctx is done the process
// group is killed and the error wraps ErrTimeout and the context error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	isolate(cmd)
	cmd.Cancel = func() error { return killTree(cmd.Process) }
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting %s: %w", name, err)
	}

	err := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("%s: %w: %w", name, ErrTimeout, ctxErr)
	}
	if err != nil {
		return stdout.String(), stderr.String(), fmt.Errorf("running %s: %w", name, err)
	}
	return stdout.String(), stderr.String(), nil
}

// LookPath reports whether name resolves to an executable.
func LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("looking up %s: %w", name, err)
	}
	return path, nil
}
