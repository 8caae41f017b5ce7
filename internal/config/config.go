// Package config loads the debtidy configuration file and environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/debtidy/debtidy/internal/overrides"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "debtidy.yaml"

// Config represents the application configuration.
type Config struct {
	// OverridePaths are the lintian override file locations, relative to
	// the package tree root. Entries may be glob patterns.
	OverridePaths []string `yaml:"override_paths,omitempty"`

	// Fixers restricts runs to the named fixers. Empty means all.
	Fixers []string `yaml:"fixers,omitempty"`

	// Exclude drops the named fixers from runs.
	Exclude []string `yaml:"exclude,omitempty"`

	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint of watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce is how long to wait after the last filesystem event before
	// rerunning the fixers, as a time.ParseDuration string.
	Debounce string `yaml:"debounce,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OverridePaths: overrides.DefaultLocations,
		Metrics:       MetricsConfig{Listen: ":9135"},
		Watch:         WatchConfig{Debounce: "2s"},
	}
}

// DebounceDuration parses the watch debounce interval.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch.debounce: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("watch.debounce: must be positive, got %s", c.Watch.Debounce)
	}
	return d, nil
}

// Load reads configuration from path, falling back to defaults when the
// default file does not exist. A .env file next to the working directory is
// loaded first so ${VAR} references in the YAML resolve, and DEBTIDY_*
// variables override the file afterwards.
func Load(path string) (*Config, error) {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultPath:
		// Run on defaults.
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(cfg)
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv layers DEBTIDY_* environment overrides on top of cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DEBTIDY_FIXERS"); v != "" {
		cfg.Fixers = splitList(v)
	}
	if v := os.Getenv("DEBTIDY_EXCLUDE"); v != "" {
		cfg.Exclude = splitList(v)
	}
	if v := os.Getenv("DEBTIDY_OVERRIDE_PATHS"); v != "" {
		cfg.OverridePaths = splitList(v)
	}
	if v := os.Getenv("DEBTIDY_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = v
	}
	if v := os.Getenv("DEBTIDY_WATCH_DEBOUNCE"); v != "" {
		cfg.Watch.Debounce = v
	}
}

func validate(cfg *Config) error {
	if len(cfg.OverridePaths) == 0 {
		cfg.OverridePaths = overrides.DefaultLocations
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "2s"
	}
	if _, err := cfg.DebounceDuration(); err != nil {
		return err
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen: required when metrics are enabled")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
