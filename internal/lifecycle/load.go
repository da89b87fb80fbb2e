package lifecycle

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// LoadOutcome describes what the model-load stage did.
type LoadOutcome int

const (
	// LoadAlreadyLoaded means lms ps listed the model, nothing to do.
	LoadAlreadyLoaded LoadOutcome = iota
	// LoadLoaded means lms load completed.
	LoadLoaded
)

// EnsureModelLoaded makes sure the configured model is loaded in the running
// server. It short-circuits when `lms ps` already lists the model (by id or
// configured identifier), otherwise it invokes `lms load` with the configured
// GPU, context-length and identifier options. The load call gets a generous
// timeout: pulling a model into VRAM is slow.
func (m *Manager) EnsureModelLoaded(ctx context.Context) (LoadOutcome, error) {
	if m.modelListed(ctx) {
		return LoadAlreadyLoaded, nil
	}

	args := []string{"load", m.cfg.Model}
	args = append(args, m.gpuArgs()...)
	if m.cfg.ContextLength > 0 {
		args = append(args, fmt.Sprintf("--context-length=%d", m.cfg.ContextLength))
	}
	if m.cfg.ModelIdentifier != "" {
		args = append(args, "--identifier="+m.cfg.ModelIdentifier)
	}

	ctx, cancel := context.WithTimeout(ctx, m.loadTimeout)
	defer cancel()
	stdout, stderr, err := m.runner.Output(ctx, helperCmd, args...)
	if err != nil {
		return 0, fmt.Errorf("lms load %s: %s", m.cfg.Model, loadDiagnostic(stderr, stdout))
	}
	return LoadLoaded, nil
}

// modelListed checks the lms process listing for the model. A failing ps call
// just means "not listed", the load attempt decides from there.
func (m *Manager) modelListed(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.detectTimeout)
	defer cancel()
	stdout, _, err := m.runner.Output(ctx, helperCmd, "ps")
	if err != nil {
		return false
	}
	if m.cfg.Model != "" && strings.Contains(stdout, m.cfg.Model) {
		return true
	}
	return m.cfg.ModelIdentifier != "" && strings.Contains(stdout, m.cfg.ModelIdentifier)
}

// gpuArgs translates the configured GPU spec into lms flags. "auto" and ""
// mean "let lms decide" (no flag), "max" passes through, a fraction in [0,1]
// passes through. Anything else is logged and dropped so a typo never blocks
// the load.
func (m *Manager) gpuArgs() []string {
	spec := strings.TrimSpace(m.cfg.GPU)
	switch spec {
	case "", "auto":
		return nil
	case "max":
		return []string{"--gpu=max"}
	}
	f, err := strconv.ParseFloat(spec, 64)
	if err != nil || f < 0 || f > 1 {
		m.log.Warn().Str("gpu", spec).Msg("invalid gpu value, expected auto, max, or a fraction in [0,1]; ignoring")
		return nil
	}
	return []string{"--gpu=" + spec}
}

// loadDiagnostic picks the most useful tool output for the error message.
func loadDiagnostic(stderr, stdout string) string {
	if s := strings.TrimSpace(stderr); s != "" {
		return s
	}
	if s := strings.TrimSpace(stdout); s != "" {
		return s
	}
	return "load command failed with no output"
}
