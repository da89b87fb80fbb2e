package lifecycle

import (
	"context"
	"time"
)

// WaitReady polls the health check until it succeeds or the start timeout
// elapses. The first successful probe returns immediately; each failed probe
// is followed by exactly one poll-interval sleep, no busy spinning. This is
// the only blocking loop in the manager.
func (m *Manager) WaitReady(ctx context.Context) bool {
	start := time.Now()
	for {
		if m.Probe(ctx) {
			return true
		}
		if time.Since(start)+m.cfg.PollInterval > m.cfg.StartTimeout {
			return false
		}
		select {
		case <-time.After(m.cfg.PollInterval):
		case <-ctx.Done():
			return false
		}
	}
}
