package git

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeExecutor maps joined args to canned results.
type fakeExecutor struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (f *fakeExecutor) Output(ctx context.Context, args ...string) (string, error) {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, key)
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func newFake() *fakeExecutor {
	return &fakeExecutor{outputs: map[string]string{}, errs: map[string]error{}}
}

func TestIsRepo(t *testing.T) {
	f := newFake()
	f.outputs["rev-parse --is-inside-work-tree"] = "true\n"
	if !NewWithExecutor(f).IsRepo(context.Background()) {
		t.Fatalf("expected IsRepo true")
	}

	f.errs["rev-parse --is-inside-work-tree"] = errors.New("fatal: not a git repository")
	if NewWithExecutor(f).IsRepo(context.Background()) {
		t.Fatalf("expected IsRepo false outside a repo")
	}
}

func TestStagedDiff(t *testing.T) {
	f := newFake()
	f.outputs["diff --cached --no-color"] = "diff --git a/x b/x\n+added\n"
	out, err := NewWithExecutor(f).StagedDiff(context.Background(), 0)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "+added") {
		t.Fatalf("unexpected diff: %q", out)
	}
}

func TestStagedDiffTruncation(t *testing.T) {
	long := strings.Repeat("line of diff content\n", 100)
	f := newFake()
	f.outputs["diff --cached --no-color"] = long

	out, err := NewWithExecutor(f).StagedDiff(context.Background(), 200)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if len(out) > 200+len(truncationMarker) {
		t.Fatalf("diff not truncated: %d bytes", len(out))
	}
	if !strings.HasSuffix(out, truncationMarker) {
		t.Fatalf("missing truncation marker: %q", out[len(out)-40:])
	}
	// Cut must land on a line boundary.
	body := strings.TrimSuffix(out, truncationMarker)
	if strings.HasSuffix(body, "line of diff conten") {
		t.Fatalf("cut mid-line: %q", body[len(body)-30:])
	}
}

func TestStagedFiles(t *testing.T) {
	f := newFake()
	f.outputs["diff --cached --name-only"] = "a.go\n\ninternal/b.go\n"
	files, err := NewWithExecutor(f).StagedFiles(context.Background())
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || files[0] != "a.go" || files[1] != "internal/b.go" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestCommit(t *testing.T) {
	f := newFake()
	repo := NewWithExecutor(f)
	if err := repo.Commit(context.Background(), "fix: handle empty index"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(f.calls) != 1 || f.calls[0] != "commit -m fix: handle empty index" {
		t.Fatalf("unexpected calls: %v", f.calls)
	}

	if err := repo.Commit(context.Background(), "   "); err == nil {
		t.Fatalf("expected refusal on empty message")
	}
}
