package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MaxAcceptDelay caps the ready-check wait; the client's own timer runs
// out shortly after.
const MaxAcceptDelay = 15 * time.Second

type Config struct {
	Accept    AcceptConfig    `yaml:"accept"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Pick      PickConfig      `yaml:"pick"`
	Log       LogConfig       `yaml:"log"`
	Status    StatusConfig    `yaml:"status"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Prefs     PrefsConfig     `yaml:"prefs"`
}

type AcceptConfig struct {
	// Delay before accepting a ready-check. Zero or negative accepts at once.
	Delay time.Duration `yaml:"delay"`
}

type AnalysisConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxMatches   int           `yaml:"max_matches"`
	PostInterval time.Duration `yaml:"post_interval"`
	Concurrency  int           `yaml:"concurrency"`
}

type PickConfig struct {
	// Champions are name fragments matched against owned champions.
	Champions []string `yaml:"champions"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StatusConfig struct {
	// Addr enables the local status server when set.
	Addr             string        `yaml:"addr"`
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
}

type DiscoveryConfig struct {
	RetryInterval time.Duration `yaml:"retry_interval"`
	DebugEvents   bool          `yaml:"debug_events"`
}

type PrefsConfig struct {
	// Dir overrides the XDG state directory.
	Dir string `yaml:"dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Accept: AcceptConfig{Delay: 3 * time.Second},
		Analysis: AnalysisConfig{
			MaxMatches:   20,
			PostInterval: time.Second,
			Concurrency:  4,
		},
		Log: LogConfig{Level: "info"},
		Status: StatusConfig{
			SnapshotInterval: 2 * time.Second,
		},
		Discovery: DiscoveryConfig{RetryInterval: 3 * time.Second},
	}
}

// Load overlays the YAML file at path on the defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Accept.Delay > MaxAcceptDelay {
		return fmt.Errorf("accept.delay %v exceeds %v", c.Accept.Delay, MaxAcceptDelay)
	}
	if c.Analysis.MaxMatches <= 0 {
		return fmt.Errorf("analysis.max_matches must be positive, got %d", c.Analysis.MaxMatches)
	}
	if c.Analysis.Concurrency <= 0 {
		return fmt.Errorf("analysis.concurrency must be positive, got %d", c.Analysis.Concurrency)
	}
	if c.Analysis.PostInterval < 0 {
		return fmt.Errorf("analysis.post_interval must not be negative, got %v", c.Analysis.PostInterval)
	}
	if c.Discovery.RetryInterval <= 0 {
		return fmt.Errorf("discovery.retry_interval must be positive, got %v", c.Discovery.RetryInterval)
	}
	if c.Status.Addr != "" && c.Status.SnapshotInterval <= 0 {
		return fmt.Errorf("status.snapshot_interval must be positive, got %v", c.Status.SnapshotInterval)
	}
	return nil
}

// AcceptDelaySeconds is the delay in whole seconds as the store keeps it.
func (c *Config) AcceptDelaySeconds() int {
	if c.Accept.Delay <= 0 {
		return 0
	}
	return int(c.Accept.Delay / time.Second)
}
