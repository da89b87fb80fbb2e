package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "base_url=\"http://127.0.0.1:9999/v1\"\nmodel=\"qwen2.5-coder-7b-instruct\"\ngpu=\"max\"\ncontext_length=8192\nstart_timeout_ms=5000\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:9999/v1" || cfg.Model != "qwen2.5-coder-7b-instruct" || cfg.GPU != "max" || cfg.ContextLength != 8192 || cfg.StartTimeoutMS != 5000 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "base_url: http://localhost:1234/v1\nmodel: m1\nload_model: false\npoll_interval_ms: 250\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BaseURL != "http://localhost:1234/v1" || cfg.Model != "m1" || cfg.PollIntervalMS != 250 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.LoadModel == nil || *cfg.LoadModel {
		t.Fatalf("load_model=false not honored: %+v", cfg.LoadModel)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"model":"m2","server_start":"lms server start","max_tokens":64}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Model != "m2" || cfg.ServerStart != "lms server start" || cfg.MaxTokens != 64 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.ini", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("COMMITGEN_MODEL", "env-model")
	t.Setenv("COMMITGEN_START_TIMEOUT_MS", "12000")
	t.Setenv("COMMITGEN_LOAD_MODEL", "no")
	t.Setenv("COMMITGEN_TEMPERATURE", "0.7")
	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Model != "env-model" {
		t.Fatalf("model override: %q", cfg.Model)
	}
	if cfg.StartTimeoutMS != 12000 {
		t.Fatalf("timeout override: %d", cfg.StartTimeoutMS)
	}
	if cfg.ShouldLoadModel() {
		t.Fatalf("COMMITGEN_LOAD_MODEL=no should disable loading")
	}
	if cfg.Temperature != 0.7 {
		t.Fatalf("temperature override: %v", cfg.Temperature)
	}
}

func TestValidateModel(t *testing.T) {
	cases := []struct {
		model string
		ok    bool
	}{
		{"", false},
		{"   ", false},
		{"your-model-id", false},
		{"CHANGE_ME", false},
		{"qwen2.5-coder-7b-instruct", true},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.Model = tc.model
		err := cfg.ValidateModel()
		if tc.ok && err != nil {
			t.Fatalf("model %q: unexpected error %v", tc.model, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("model %q: expected error", tc.model)
		}
	}
}

func TestAutoStartSentinel(t *testing.T) {
	cases := []struct {
		start    string
		disabled bool
		command  string
	}{
		{"", false, ""},
		{"false", true, ""},
		{"0", true, ""},
		{"FALSE", true, ""},
		{"open -a 'LM Studio'", false, "open -a 'LM Studio'"},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.ServerStart = tc.start
		if got := cfg.AutoStartDisabled(); got != tc.disabled {
			t.Fatalf("AutoStartDisabled(%q)=%v", tc.start, got)
		}
		if got := cfg.StartCommand(); got != tc.command {
			t.Fatalf("StartCommand(%q)=%q", tc.start, got)
		}
	}
}

func TestResolvePrecedence(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "model=\"file-model\"\nstart_timeout_ms=9000\n")
	t.Setenv("COMMITGEN_MODEL", "env-model")
	cfg, err := Resolve(p)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	// env beats file, file beats default
	if cfg.Model != "env-model" {
		t.Fatalf("precedence: %q", cfg.Model)
	}
	if cfg.StartTimeoutMS != 9000 {
		t.Fatalf("file value lost: %d", cfg.StartTimeoutMS)
	}
	if cfg.BaseURL != "http://localhost:1234/v1" {
		t.Fatalf("default lost: %q", cfg.BaseURL)
	}
}

func TestResolveMissingExplicitFile(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}
