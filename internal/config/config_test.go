package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Belt.Count != 1500 {
		t.Errorf("Belt.Count = %d, want 1500", cfg.Belt.Count)
	}
	if cfg.Assistant.MaxTokens != 150 {
		t.Errorf("Assistant.MaxTokens = %d, want 150", cfg.Assistant.MaxTokens)
	}
	if cfg.AssistantEnabled() {
		t.Error("assistant enabled without a key")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("empty path did not return defaults")
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "orrery.yaml", `
data_path: data/planets.json
frame_interval: 33ms
seed: 7
belt:
  count: 200
stream:
  addr: ":8090"
assistant:
  model: gpt-4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataPath != "data/planets.json" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
	if cfg.FrameInterval != 33*time.Millisecond {
		t.Errorf("FrameInterval = %v", cfg.FrameInterval)
	}
	if cfg.Seed != 7 || cfg.Belt.Count != 200 {
		t.Errorf("Seed = %d, Belt.Count = %d", cfg.Seed, cfg.Belt.Count)
	}
	// Unset keys keep their defaults.
	if cfg.Belt.InnerRadius != 2.0 || cfg.Belt.OuterRadius != 3.2 {
		t.Errorf("belt radii = [%g, %g]", cfg.Belt.InnerRadius, cfg.Belt.OuterRadius)
	}
	if cfg.Stream.Addr != ":8090" || cfg.Stream.Path != "/frames" {
		t.Errorf("Stream = %+v", cfg.Stream)
	}
	if cfg.Assistant.Model != "gpt-4" || cfg.Assistant.MaxTokens != 150 {
		t.Errorf("Assistant = %+v", cfg.Assistant)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}
	bad := writeFile(t, "bad.yaml", "belt: [1, 2")
	if _, err := Load(bad); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestValidateClampsFrameInterval(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{time.Millisecond, MinFrameInterval},
		{20 * time.Millisecond, 20 * time.Millisecond},
		{time.Minute, MaxFrameInterval},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.FrameInterval = tt.in
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if cfg.FrameInterval != tt.want {
			t.Errorf("FrameInterval %v clamped to %v, want %v", tt.in, cfg.FrameInterval, tt.want)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]func(*Config){
		"no data path":  func(c *Config) { c.DataPath = "" },
		"bad belt":      func(c *Config) { c.Belt.MinSpeed = 0 },
		"no max tokens": func(c *Config) { c.Assistant.MaxTokens = 0 },
		"negative rate": func(c *Config) { c.Stats.RatePerSec = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadEnvAndApply(t *testing.T) {
	// Setenv registers the restore; the key must be absent for the file to apply.
	t.Setenv(EnvAssistantKey, "")
	os.Unsetenv(EnvAssistantKey)
	t.Setenv(EnvStatsKey, "from-process")

	path := writeFile(t, ".env", EnvAssistantKey+"=sk-test\n"+EnvStatsKey+"=from-file\n")
	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Assistant.APIKey != "sk-test" {
		t.Errorf("Assistant.APIKey = %q", cfg.Assistant.APIKey)
	}
	// Process environment wins over the file.
	if cfg.Stats.APIKey != "from-process" {
		t.Errorf("Stats.APIKey = %q", cfg.Stats.APIKey)
	}
	if !cfg.AssistantEnabled() {
		t.Error("assistant not enabled with a key")
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	if err := LoadEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env: %v", err)
	}
	if err := LoadEnv(""); err != nil {
		t.Errorf("empty path: %v", err)
	}
}
