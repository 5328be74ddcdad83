package helpers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

// CommandRunner defines an interface for executing system commands
// This allows for mocking in tests and dependency injection
type CommandRunner interface {
	// RunCommand executes a command and returns stdout
	RunCommand(ctx context.Context, name string, args ...string) (string, error)

	// RunCommandStreaming executes a command and streams output to provided writers.
	// Nil writers discard output; stdin is always the null device.
	RunCommandStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error

	// GetExitCode extracts the exit code from a command error
	GetExitCode(err error) int
}

// OSCommandRunner is the default implementation using os/exec
type OSCommandRunner struct {
	// WaitDelay bounds how long Wait lingers after the context kills the process
	WaitDelay time.Duration
}

// NewOSCommandRunner creates a new OSCommandRunner instance
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{WaitDelay: 100 * time.Millisecond}
}

// RunCommand executes a command and returns stdout
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := r.command(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %q failed: %w\nstderr: %s", name, err, stderr.String())
	}

	return stdout.String(), nil
}

// RunCommandStreaming executes a command and streams output to provided writers
// Pass nil for stdout/stderr to discard output (equivalent to > /dev/null)
// SECURITY: Uses exec.CommandContext with separate arguments to prevent command injection
func (r *OSCommandRunner) RunCommandStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := r.command(ctx, name, args...)

	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("command %q failed: %w", name, ctxErr)
		}
		return fmt.Errorf("command %q failed: %w", name, err)
	}

	return nil
}

// GetExitCode extracts the exit code from a command error
func (r *OSCommandRunner) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

func (r *OSCommandRunner) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	// Stdin stays nil so the child reads the null device, never our input stream
	cmd.Stdin = nil
	cmd.WaitDelay = r.WaitDelay
	return cmd
}
