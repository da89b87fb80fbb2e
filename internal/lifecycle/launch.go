package lifecycle

import (
	"context"
	"fmt"
)

// launchServer starts the inference server detached from this process.
// Precedence: a custom start command always wins; otherwise `lms server
// start` when the helper is installed; otherwise the platform default launch.
// Only a spawn failure is fatal here. Whether the server actually came up is
// decided empirically by the readiness poller.
func (m *Manager) launchServer(ctx context.Context, helperAvailable bool) error {
	if cmd := m.cfg.StartCommand; cmd != "" {
		m.log.Info().Str("command", cmd).Msg("starting inference server with custom command")
		if err := m.startShellDetached(cmd); err != nil {
			return ErrLaunchFailed(fmt.Errorf("custom start command %q: %w", cmd, err))
		}
		return nil
	}

	if helperAvailable {
		ctx, cancel := context.WithTimeout(ctx, m.startWait)
		defer cancel()
		if err := m.runner.Run(ctx, helperCmd, "server", "start"); err == nil {
			m.log.Info().Msg("started inference server via lms")
			return nil
		}
		m.log.Debug().Msg("lms server start failed, falling back to app launch")
	}

	return m.launchApp()
}

// launchApp opens the server application the platform way.
func (m *Manager) launchApp() error {
	var err error
	switch m.goos {
	case "darwin":
		m.log.Info().Str("app", appName).Msg("opening server application")
		err = m.runner.StartDetached("open", "-a", appName)
	case "windows":
		m.log.Info().Str("app", appName).Msg("opening server application")
		err = m.runner.StartDetached("cmd", "/C", "start", "", appName)
	default:
		m.log.Info().Str("app", "lm-studio").Msg("starting server application")
		err = m.runner.StartDetached("lm-studio")
	}
	if err != nil {
		return ErrLaunchFailed(err)
	}
	return nil
}

// startShellDetached runs a user-supplied command line through the platform
// shell, detached, output discarded.
func (m *Manager) startShellDetached(command string) error {
	if m.goos == "windows" {
		return m.runner.StartDetached("cmd", "/C", command)
	}
	return m.runner.StartDetached("sh", "-c", command)
}
