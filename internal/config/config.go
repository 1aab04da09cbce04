// Package config loads orrery settings from an optional YAML file, a .env
// file for secrets, and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-orrery/internal/orbit"
	"github.com/litescript/ls-orrery/internal/planetdata"
)

// Environment variables read for secrets.
const (
	EnvAssistantKey = "ORRERY_ASSISTANT_KEY"
	EnvStatsKey     = "API_NINJAS_KEY"
)

// Frame interval bounds.
const (
	DefaultFrameInterval = 16 * time.Millisecond
	MinFrameInterval     = 8 * time.Millisecond
	MaxFrameInterval     = time.Second
)

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // Empty disables the endpoint
	Path string `yaml:"path"`
}

// StreamConfig controls the websocket frame feed.
type StreamConfig struct {
	Addr       string `yaml:"addr"` // Empty disables the feed
	Path       string `yaml:"path"`
	EveryTicks int    `yaml:"every_ticks"`
	Asteroids  bool   `yaml:"asteroids"`
}

// AssistantConfig controls the chat assistant panel.
type AssistantConfig struct {
	URL       string        `yaml:"url"`
	Model     string        `yaml:"model"`
	MaxTokens int           `yaml:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
	APIKey    string        `yaml:"-"`
}

// StatsConfig controls planetgen's stats lookups.
type StatsConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	RatePerSec  float64       `yaml:"rate_per_sec"`
	Burst       int           `yaml:"burst"`
	Concurrency int           `yaml:"concurrency"`
	APIKey      string        `yaml:"-"`
}

// Config holds every orrery setting.
type Config struct {
	DataPath      string           `yaml:"data_path"`
	LogLevel      string           `yaml:"log_level"`
	LogFile       string           `yaml:"log_file"`
	FrameInterval time.Duration    `yaml:"frame_interval"`
	Seed          uint64           `yaml:"seed"`
	FlyIn         bool             `yaml:"fly_in"`
	Belt          orbit.BeltConfig `yaml:"belt"`
	Metrics       MetricsConfig    `yaml:"metrics"`
	Stream        StreamConfig     `yaml:"stream"`
	Assistant     AssistantConfig  `yaml:"assistant"`
	Stats         StatsConfig      `yaml:"stats"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		DataPath:      planetdata.DefaultPath,
		LogLevel:      "info",
		FrameInterval: DefaultFrameInterval,
		Seed:          1,
		FlyIn:         true,
		Belt:          orbit.DefaultBeltConfig(),
		Metrics: MetricsConfig{
			Path: "/metrics",
		},
		Stream: StreamConfig{
			Path:       "/frames",
			EveryTicks: 2,
		},
		Assistant: AssistantConfig{
			URL:       "https://api.openai.com/v1/chat/completions",
			Model:     "gpt-3.5-turbo",
			MaxTokens: 150,
			Timeout:   30 * time.Second,
			CacheSize: 64,
		},
		Stats: StatsConfig{
			URL:         planetdata.DefaultStatsURL,
			Timeout:     planetdata.DefaultStatsTimeout,
			RatePerSec:  2,
			Burst:       1,
			Concurrency: planetdata.DefaultConcurrency,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads a .env file into the process environment. Variables already
// set win. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv copies secrets from the environment into cfg.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAssistantKey); v != "" {
		c.Assistant.APIKey = v
	}
	if v := os.Getenv(EnvStatsKey); v != "" {
		c.Stats.APIKey = v
	}
}

// Validate clamps the frame interval into range and rejects settings the
// simulation cannot run with.
func (c *Config) Validate() error {
	if c.FrameInterval < MinFrameInterval {
		c.FrameInterval = MinFrameInterval
	} else if c.FrameInterval > MaxFrameInterval {
		c.FrameInterval = MaxFrameInterval
	}
	if c.Stream.EveryTicks < 1 {
		c.Stream.EveryTicks = 1
	}

	if c.DataPath == "" {
		return fmt.Errorf("data_path must be set")
	}
	if err := c.Belt.Validate(); err != nil {
		return err
	}
	if c.Assistant.MaxTokens <= 0 {
		return fmt.Errorf("assistant max_tokens must be > 0, got %d", c.Assistant.MaxTokens)
	}
	if c.Stats.RatePerSec < 0 {
		return fmt.Errorf("stats rate_per_sec must be >= 0, got %g", c.Stats.RatePerSec)
	}
	return nil
}

// AssistantEnabled reports whether the assistant panel has credentials.
func (c *Config) AssistantEnabled() bool {
	return c.Assistant.APIKey != "" && c.Assistant.URL != ""
}
