package lifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// fakeRunner scripts command outcomes and records every invocation. Results
// are keyed by command-line prefix ("lms server start" matches the exact
// call, "lms load" matches any load invocation).
type fakeRunner struct {
	mu       sync.Mutex
	calls    []runnerCall
	results  map[string]error
	outputs  map[string]fakeOutput
	onRun    func(name string, args []string)
	startErr error
}

type runnerCall struct {
	name     string
	args     []string
	detached bool
}

type fakeOutput struct {
	stdout string
	stderr string
	err    error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: map[string]error{},
		outputs: map[string]fakeOutput{},
	}
}

func cmdline(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}

func (f *fakeRunner) lookup(name string, args []string) (string, bool) {
	line := cmdline(name, args)
	best := ""
	for k := range f.results {
		if strings.HasPrefix(line, k) && len(k) > len(best) {
			best = k
		}
	}
	for k := range f.outputs {
		if strings.HasPrefix(line, k) && len(k) > len(best) {
			best = k
		}
	}
	return best, best != ""
}

func (f *fakeRunner) record(name string, args []string, detached bool) {
	f.mu.Lock()
	f.calls = append(f.calls, runnerCall{name: name, args: args, detached: detached})
	f.mu.Unlock()
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.record(name, args, false)
	if f.onRun != nil {
		f.onRun(name, args)
	}
	if k, ok := f.lookup(name, args); ok {
		if out, found := f.outputs[k]; found {
			return out.err
		}
		return f.results[k]
	}
	return nil
}

func (f *fakeRunner) Output(ctx context.Context, name string, args ...string) (string, string, error) {
	f.record(name, args, false)
	if f.onRun != nil {
		f.onRun(name, args)
	}
	if k, ok := f.lookup(name, args); ok {
		if out, found := f.outputs[k]; found {
			return out.stdout, out.stderr, out.err
		}
		return "", "", f.results[k]
	}
	return "", "", nil
}

func (f *fakeRunner) StartDetached(name string, args ...string) error {
	f.record(name, args, true)
	return f.startErr
}

// callLines flattens recorded calls for assertions.
func (f *fakeRunner) callLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		lines = append(lines, cmdline(c.name, c.args))
	}
	return lines
}

func (f *fakeRunner) calledWithPrefix(prefix string) bool {
	for _, l := range f.callLines() {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func (f *fakeRunner) detachedCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var lines []string
	for _, c := range f.calls {
		if c.detached {
			lines = append(lines, cmdline(c.name, c.args))
		}
	}
	return lines
}

// testManager builds a Manager wired to the fake runner with fast timings.
func testManager(cfg ServerConfig, r Runner, opts ...Option) *Manager {
	if cfg.StartTimeout == 0 {
		cfg.StartTimeout = 500 * time.Millisecond
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 50 * time.Millisecond
	}
	base := []Option{WithRunner(r), WithGOOS("darwin"), WithProbeTimeout(250 * time.Millisecond)}
	return New(cfg, zerolog.Nop(), append(base, opts...)...)
}
