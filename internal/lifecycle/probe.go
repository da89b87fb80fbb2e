package lifecycle

import (
	"context"
	"io"
	"net/http"
)

// Probe issues one health check against {baseURL}/models. It reports true iff
// the server answered 2xx within the probe timeout; every other outcome
// (refused connection, timeout, 4xx/5xx) is false. It never returns an error,
// the readiness poller calls it in a tight loop.
func (m *Manager) Probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.cfg.BaseURL+"/models", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)

	resp, err := m.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
