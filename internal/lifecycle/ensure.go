package lifecycle

import "context"

// Ensure is the entry point the rest of commitgen calls: after it returns nil
// the server is reachable, and the configured model has been loaded when the
// helper CLI allows it.
//
// Sequence: probe once; if down, fail on the disabling sentinel, otherwise
// launch (custom command > lms > platform default) and poll until ready or
// the deadline. A launch attempt always proceeds to polling, success is
// detected empirically, not from the launcher's exit status. The model-load
// stage never fails Ensure: the model may well be loaded through the GUI, so
// a load failure is logged and execution continues.
func (m *Manager) Ensure(ctx context.Context) error {
	var helper, helperKnown bool

	if m.Probe(ctx) {
		m.log.Debug().Str("base_url", m.cfg.BaseURL).Msg("inference server already running")
	} else {
		if m.cfg.AutoStartDisabled {
			return ErrAutoStartDisabled()
		}
		helper = m.HelperAvailable(ctx)
		helperKnown = true
		m.log.Info().Str("base_url", m.cfg.BaseURL).Msg("inference server not reachable, starting it")
		if err := m.launchServer(ctx, helper); err != nil {
			return err
		}
		if !m.WaitReady(ctx) {
			return ErrStartTimeout(m.cfg.StartTimeout)
		}
		m.log.Info().Msg("inference server is ready")
	}

	if !m.cfg.LoadModel || m.cfg.Model == "" {
		return nil
	}
	if !helperKnown {
		helper = m.HelperAvailable(ctx)
	}
	if !helper {
		m.log.Info().Msg("lms is not installed, skipping model load (install lms or load the model in the app)")
		return nil
	}
	switch outcome, err := m.EnsureModelLoaded(ctx); {
	case err != nil:
		m.log.Warn().Err(err).Str("model", m.cfg.Model).Msg("model load failed, continuing (it may already be loaded elsewhere)")
	case outcome == LoadAlreadyLoaded:
		m.log.Debug().Str("model", m.cfg.Model).Msg("model already loaded")
	default:
		m.log.Info().Str("model", m.cfg.Model).Msg("model loaded")
	}
	return nil
}

// CurrentStatus reports reachability and helper availability without starting
// anything. Used by `commitgen server status` and `commitgen doctor`.
func (m *Manager) CurrentStatus(ctx context.Context) Status {
	return Status{
		Reachable:       m.Probe(ctx),
		HelperAvailable: m.HelperAvailable(ctx),
	}
}
