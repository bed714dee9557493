package process

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

// ---------------------------------------------------------------------------
// TestExecRunner - Output, Failure and Timeout
// ---------------------------------------------------------------------------

func TestExecRunner_CapturesOutput(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	r := &ExecRunner{}
	stdout, stderr, err := r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.TrimSpace(stdout) != "out" {
		t.Errorf("stdout = %q, want out", stdout)
	}
	if strings.TrimSpace(stderr) != "err" {
		t.Errorf("stderr = %q, want err", stderr)
	}
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	r := &ExecRunner{}
	_, _, err := r.Run(context.Background(), "sh", "-c", "exit 3")

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run() error = %v, want *exec.ExitError", err)
	}
	if exitErr.ExitCode() != 3 {
		t.Errorf("exit code = %d, want 3", exitErr.ExitCode())
	}
}

func TestExecRunner_Timeout(t *testing.T) {
	t.Parallel()
	skipWithoutShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	r := &ExecRunner{WaitDelay: 500 * time.Millisecond}
	_, _, err := r.Run(ctx, "sh", "-c", "sleep 30 & sleep 30")

	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Run() error = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("Run() took %v after timeout, process group was not killed", elapsed)
	}
}

func TestExecRunner_CommandNotFound(t *testing.T) {
	t.Parallel()

	r := &ExecRunner{}
	_, _, err := r.Run(context.Background(), "dllup-command-that-does-not-exist")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run() error = %v, want exec.ErrNotFound", err)
	}
}

func TestLookPath_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LookPath("dllup-command-that-does-not-exist"); err == nil {
		t.Error("LookPath() should fail for a missing command")
	}
}
