package lifecycle

import "context"

// HelperAvailable reports whether the lms CLI is installed and responsive.
// Any spawn error or non-zero exit is "not available"; callers fall back to
// the slower portable paths. Ensure computes this once per run and passes the
// flag down instead of re-spawning lms before every call.
func (m *Manager) HelperAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.detectTimeout)
	defer cancel()
	return m.runner.Run(ctx, helperCmd, "version") == nil
}
