// Package git wraps the handful of git invocations commitgen needs: staged
// diff inspection and the final commit.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs git commands. The indirection exists so tests can script
// outputs without a real repository.
type Executor interface {
	Output(ctx context.Context, args ...string) (string, error)
}

// execExecutor shells out to the git binary.
type execExecutor struct{}

func (execExecutor) Output(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

// Repo exposes the staged-changes operations.
type Repo struct {
	exec Executor
}

// New returns a Repo backed by the git binary.
func New() *Repo { return &Repo{exec: execExecutor{}} }

// NewWithExecutor returns a Repo backed by a custom executor.
func NewWithExecutor(e Executor) *Repo { return &Repo{exec: e} }

// IsRepo reports whether the working directory is inside a git work tree.
func (r *Repo) IsRepo(ctx context.Context) bool {
	out, err := r.exec.Output(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// StagedDiff returns the diff of the index against HEAD, truncated at a line
// boundary once it exceeds maxBytes (0 means no limit) so oversized diffs do
// not blow the model context.
func (r *Repo) StagedDiff(ctx context.Context, maxBytes int) (string, error) {
	out, err := r.exec.Output(ctx, "diff", "--cached", "--no-color")
	if err != nil {
		return "", err
	}
	return truncateDiff(out, maxBytes), nil
}

// StagedFiles returns the paths staged for commit.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.exec.Output(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Commit records the staged changes with the given message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("refusing to commit with an empty message")
	}
	_, err := r.exec.Output(ctx, "commit", "-m", message)
	return err
}

const truncationMarker = "\n[diff truncated]\n"

// truncateDiff cuts s at the last newline before maxBytes and appends a
// marker, so the model sees whole lines only.
func truncateDiff(s string, maxBytes int) string {
	if maxBytes <= 0 || len(s) <= maxBytes {
		return s
	}
	cut := strings.LastIndexByte(s[:maxBytes], '\n')
	if cut <= 0 {
		cut = maxBytes
	}
	return s[:cut] + truncationMarker
}
