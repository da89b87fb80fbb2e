// Package lifecycle brings up the local inference server: it probes the
// OpenAI-compatible endpoint, starts the server when it is down (via the lms
// helper CLI, a platform launch command, or a user-supplied command), loads
// the configured model, and polls until the server answers.
package lifecycle

import (
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"commitgen/internal/config"
)

const (
	// helperCmd is the LM Studio companion CLI.
	helperCmd = "lms"
	// appName is the GUI application launched when lms is not installed.
	appName = "LM Studio"
)

// ServerConfig is the slice of the tool configuration the lifecycle manager
// needs. It is copied in at construction; the manager holds no other state
// between runs.
type ServerConfig struct {
	BaseURL           string
	APIKey            string
	StartCommand      string // custom launch command, "" means default path
	AutoStartDisabled bool
	LoadModel         bool
	Model             string
	GPU               string // "auto", "max", or a fraction in [0,1]
	ContextLength     int
	ModelIdentifier   string
	StartTimeout      time.Duration
	PollInterval      time.Duration
}

// FromConfig extracts the lifecycle slice of the resolved configuration.
func FromConfig(cfg config.Config) ServerConfig {
	return ServerConfig{
		BaseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:            cfg.APIKey,
		StartCommand:      cfg.StartCommand(),
		AutoStartDisabled: cfg.AutoStartDisabled(),
		LoadModel:         cfg.ShouldLoadModel(),
		Model:             cfg.Model,
		GPU:               cfg.GPU,
		ContextLength:     cfg.ContextLength,
		ModelIdentifier:   cfg.ModelIdentifier,
		StartTimeout:      time.Duration(cfg.StartTimeoutMS) * time.Millisecond,
		PollInterval:      time.Duration(cfg.PollIntervalMS) * time.Millisecond,
	}
}

// Manager coordinates the bring-up sequence. One Manager per invocation;
// methods are not safe for concurrent use and do not need to be.
type Manager struct {
	cfg    ServerConfig
	log    zerolog.Logger
	http   *http.Client
	runner Runner
	goos   string

	probeTimeout  time.Duration
	detectTimeout time.Duration
	startWait     time.Duration
	loadTimeout   time.Duration
}

// Option adjusts a Manager, mostly for tests.
type Option func(*Manager)

// WithRunner replaces the exec-backed command runner.
func WithRunner(r Runner) Option { return func(m *Manager) { m.runner = r } }

// WithHTTPClient replaces the probe HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(m *Manager) { m.http = c } }

// WithGOOS overrides platform detection for the launch fallback.
func WithGOOS(goos string) Option { return func(m *Manager) { m.goos = goos } }

// WithProbeTimeout shortens the per-probe deadline.
func WithProbeTimeout(d time.Duration) Option { return func(m *Manager) { m.probeTimeout = d } }

// New builds a Manager with production defaults: a short-dial HTTP client and
// the os/exec runner.
func New(cfg ServerConfig, log zerolog.Logger, opts ...Option) *Manager {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	m := &Manager{
		cfg: cfg,
		log: log,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: 2 * time.Second,
				}).DialContext,
			},
		},
		runner:        execRunner{},
		goos:          runtime.GOOS,
		probeTimeout:  2 * time.Second,
		detectTimeout: 2 * time.Second,
		startWait:     15 * time.Second,
		loadTimeout:   60 * time.Second,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Status is a point-in-time snapshot used by `commitgen server status` and
// `commitgen doctor`.
type Status struct {
	Reachable       bool
	HelperAvailable bool
}
