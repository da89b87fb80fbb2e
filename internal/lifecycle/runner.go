package lifecycle

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// Runner is the seam between the lifecycle manager and os/exec, so tests can
// substitute recorded outcomes for real child processes.
type Runner interface {
	// Run executes a command, waits for it, and discards its output.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command, waits for it, and returns captured
	// stdout/stderr alongside the exit error.
	Output(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
	// StartDetached spawns a command that outlives this process: output
	// discarded, never waited on, ownership released after start.
	StartDetached(name string, args ...string) error
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

func (execRunner) Output(ctx context.Context, name string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (execRunner) StartDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return err
	}
	// Release so the child is never reaped by us and survives our exit.
	return cmd.Process.Release()
}
