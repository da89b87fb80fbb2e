package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Placeholder model ids shipped in sample configs. Validate rejects them so a
// copy-pasted config cannot silently send requests for a model that does not
// exist.
var placeholderModels = map[string]struct{}{
	"your-model-id": {},
	"CHANGE_ME":     {},
}

// Config holds every runtime parameter of commitgen. Zero values mean
// "unspecified"; Default fills them in. The resolved value is passed into each
// component explicitly, there is no package-level config state.
type Config struct {
	BaseURL         string  `json:"base_url" yaml:"base_url" toml:"base_url"`
	APIKey          string  `json:"api_key" yaml:"api_key" toml:"api_key"`
	Model           string  `json:"model" yaml:"model" toml:"model"`
	ServerStart     string  `json:"server_start" yaml:"server_start" toml:"server_start"`
	LoadModel       *bool   `json:"load_model" yaml:"load_model" toml:"load_model"`
	GPU             string  `json:"gpu" yaml:"gpu" toml:"gpu"`
	ContextLength   int     `json:"context_length" yaml:"context_length" toml:"context_length"`
	ModelIdentifier string  `json:"model_identifier" yaml:"model_identifier" toml:"model_identifier"`
	StartTimeoutMS  int     `json:"start_timeout_ms" yaml:"start_timeout_ms" toml:"start_timeout_ms"`
	PollIntervalMS  int     `json:"poll_interval_ms" yaml:"poll_interval_ms" toml:"poll_interval_ms"`
	Temperature     float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	MaxTokens       int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	MaxDiffBytes    int     `json:"max_diff_bytes" yaml:"max_diff_bytes" toml:"max_diff_bytes"`
	LogLevel        string  `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns the configuration used when no file and no env overrides are
// present. The base URL and API key match LM Studio's out-of-the-box server.
func Default() Config {
	yes := true
	return Config{
		BaseURL:        "http://localhost:1234/v1",
		APIKey:         "lm-studio",
		LoadModel:      &yes,
		GPU:            "auto",
		StartTimeoutMS: 30000,
		PollIntervalMS: 1000,
		Temperature:    0.2,
		MaxTokens:      128,
		MaxDiffBytes:   64 * 1024,
		LogLevel:       "info",
	}
}

// Load reads a configuration file based on its extension.
// Supports: .toml, .yaml/.yml, .json
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the config file
// (explicit path or the first hit in the search order), then env overrides.
func Resolve(explicitPath string) (Config, error) {
	cfg := Default()

	path := explicitPath
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		fileCfg, err := Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg.merge(fileCfg)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// findConfigFile returns the first config file found in the search order:
// ./commitgen.toml, then $XDG_CONFIG_HOME/commitgen/config.toml (with the
// usual ~/.config fallback). Empty string means "defaults only".
func findConfigFile() string {
	if _, err := os.Stat("commitgen.toml"); err == nil {
		return "commitgen.toml"
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	p := filepath.Join(base, "commitgen", "config.toml")
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

// merge overlays non-zero fields of o onto c.
func (c *Config) merge(o Config) {
	if o.BaseURL != "" {
		c.BaseURL = o.BaseURL
	}
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.ServerStart != "" {
		c.ServerStart = o.ServerStart
	}
	if o.LoadModel != nil {
		c.LoadModel = o.LoadModel
	}
	if o.GPU != "" {
		c.GPU = o.GPU
	}
	if o.ContextLength != 0 {
		c.ContextLength = o.ContextLength
	}
	if o.ModelIdentifier != "" {
		c.ModelIdentifier = o.ModelIdentifier
	}
	if o.StartTimeoutMS != 0 {
		c.StartTimeoutMS = o.StartTimeoutMS
	}
	if o.PollIntervalMS != 0 {
		c.PollIntervalMS = o.PollIntervalMS
	}
	if o.Temperature != 0 {
		c.Temperature = o.Temperature
	}
	if o.MaxTokens != 0 {
		c.MaxTokens = o.MaxTokens
	}
	if o.MaxDiffBytes != 0 {
		c.MaxDiffBytes = o.MaxDiffBytes
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// ApplyEnv overrides fields from COMMITGEN_* environment variables.
func (c *Config) ApplyEnv() {
	c.BaseURL = envStr("COMMITGEN_BASE_URL", c.BaseURL)
	c.APIKey = envStr("COMMITGEN_API_KEY", c.APIKey)
	c.Model = envStr("COMMITGEN_MODEL", c.Model)
	c.ServerStart = envStr("COMMITGEN_SERVER_START", c.ServerStart)
	if v := os.Getenv("COMMITGEN_LOAD_MODEL"); v != "" {
		b := envBool("COMMITGEN_LOAD_MODEL", c.LoadModel == nil || *c.LoadModel)
		c.LoadModel = &b
	}
	c.GPU = envStr("COMMITGEN_GPU", c.GPU)
	c.ContextLength = envInt("COMMITGEN_CONTEXT_LENGTH", c.ContextLength)
	c.ModelIdentifier = envStr("COMMITGEN_MODEL_IDENTIFIER", c.ModelIdentifier)
	c.StartTimeoutMS = envInt("COMMITGEN_START_TIMEOUT_MS", c.StartTimeoutMS)
	c.PollIntervalMS = envInt("COMMITGEN_POLL_INTERVAL_MS", c.PollIntervalMS)
	c.MaxTokens = envInt("COMMITGEN_MAX_TOKENS", c.MaxTokens)
	c.MaxDiffBytes = envInt("COMMITGEN_MAX_DIFF_BYTES", c.MaxDiffBytes)
	c.LogLevel = envStr("COMMITGEN_LOG_LEVEL", c.LogLevel)
	if v := os.Getenv("COMMITGEN_TEMPERATURE"); v != "" {
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			c.Temperature = f
		}
	}
}

// Validate checks the invariants the rest of the tool relies on. The model
// check runs before any request or load is attempted, so a missing model never
// reaches the lifecycle manager or the LLM client.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty (set COMMITGEN_BASE_URL)")
	}
	if err := c.ValidateModel(); err != nil {
		return err
	}
	if c.StartTimeoutMS <= 0 {
		return fmt.Errorf("start_timeout_ms must be positive (set COMMITGEN_START_TIMEOUT_MS)")
	}
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive (set COMMITGEN_POLL_INTERVAL_MS)")
	}
	return nil
}

// ValidateModel enforces the required-model rule on its own, for commands that
// need a model but tolerate relaxed timing values.
func (c Config) ValidateModel() error {
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("no model configured: set COMMITGEN_MODEL or the model key in commitgen.toml")
	}
	if _, ok := placeholderModels[c.Model]; ok {
		return fmt.Errorf("model %q is a placeholder: set COMMITGEN_MODEL to a model id known to the server (try `lms ls`)", c.Model)
	}
	return nil
}

// ShouldLoadModel reports whether the model-load stage is enabled.
func (c Config) ShouldLoadModel() bool {
	return c.LoadModel == nil || *c.LoadModel
}

// AutoStartDisabled reports whether server_start carries the disabling
// sentinel ("false" or "0").
func (c Config) AutoStartDisabled() bool {
	s := strings.TrimSpace(strings.ToLower(c.ServerStart))
	return s == "false" || s == "0"
}

// StartCommand returns the custom start command, or "" when the default
// launch path should be used. The disabling sentinel is not a command.
func (c Config) StartCommand() string {
	if c.AutoStartDisabled() {
		return ""
	}
	return strings.TrimSpace(c.ServerStart)
}

// Env helpers
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	s := strings.ToLower(v)
	return s == "1" || s == "true" || s == "yes"
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return def
}
