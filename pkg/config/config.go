// Package config loads tabstop runtime configuration from YAML and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	tserrors "github.com/odvcencio/tabstop/pkg/errors"
)

// Default configuration values exported for documentation and validation
const (
	DefaultLogLevel         = "info"
	DefaultTypeAheadTimeout = 350 * time.Millisecond
	DefaultHistorySize      = 5
	DefaultMetricsNamespace = "tabstop"
)

// DefaultTrapFeatures enables every trap behaviour.
var DefaultTrapFeatures = []string{"initial_focus", "tab_lock", "focus_lock", "restore_focus"}

var validTrapFeatures = map[string]bool{
	"initial_focus": true,
	"tab_lock":      true,
	"focus_lock":    true,
	"restore_focus": true,
}

// Config represents the complete tabstop configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	TypeAhead TypeAheadConfig `yaml:"type_ahead"`
	Focus     FocusConfig     `yaml:"focus"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TypeAheadConfig controls list type-ahead search.
type TypeAheadConfig struct {
	// Timeout is the idle time after which the accumulated query is cleared.
	Timeout time.Duration `yaml:"timeout"`
}

// FocusConfig controls traps and focus history.
type FocusConfig struct {
	HistorySize  int      `yaml:"history_size"`
	TrapFeatures []string `yaml:"trap_features"`
}

// MetricsConfig controls Prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: DefaultLogLevel},
		TypeAhead: TypeAheadConfig{
			Timeout: DefaultTypeAheadTimeout,
		},
		Focus: FocusConfig{
			HistorySize:  DefaultHistorySize,
			TrapFeatures: append([]string{}, DefaultTrapFeatures...),
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultMetricsNamespace,
		},
	}
}

// Load loads configuration from ./.tabstop/config.yaml when present, then
// applies environment overrides and validates.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	projectConfigPath := filepath.Join(".", ".tabstop", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		if os.IsNotExist(err) {
			return nil, tserrors.Wrap(err, tserrors.ErrCodeConfigLoad, "config file not found").
				WithContext("path", path)
		}
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults without touching the environment.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := decodeInto(cfg, data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAndMerge loads a YAML file over cfg. Keys absent from the file keep
// their current values.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeInto(cfg, data)
}

func decodeInto(cfg *Config, data []byte) error {
	features := cfg.Focus.TrapFeatures
	cfg.Focus.TrapFeatures = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg.Focus.TrapFeatures = features
		return tserrors.Wrap(err, tserrors.ErrCodeConfigParse, "parsing YAML")
	}
	if cfg.Focus.TrapFeatures == nil {
		cfg.Focus.TrapFeatures = features
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TABSTOP_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TABSTOP_TYPEAHEAD_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return tserrors.Wrap(err, tserrors.ErrCodeConfigInvalid, "invalid TABSTOP_TYPEAHEAD_TIMEOUT").
				WithContext("value", v)
		}
		cfg.TypeAhead.Timeout = d
	}
	if v := os.Getenv("TABSTOP_HISTORY_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return tserrors.Wrap(err, tserrors.ErrCodeConfigInvalid, "invalid TABSTOP_HISTORY_SIZE").
				WithContext("value", v)
		}
		cfg.Focus.HistorySize = n
	}
	if v := os.Getenv("TABSTOP_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	return nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return tserrors.New(tserrors.ErrCodeConfigInvalid, "unknown log level").
			WithContext("level", c.Logging.Level)
	}
	if c.TypeAhead.Timeout <= 0 {
		return tserrors.New(tserrors.ErrCodeConfigInvalid, "type-ahead timeout must be positive").
			WithContext("timeout", c.TypeAhead.Timeout)
	}
	if c.Focus.HistorySize < 1 {
		return tserrors.New(tserrors.ErrCodeConfigInvalid, "focus history size must be at least 1").
			WithContext("history_size", c.Focus.HistorySize)
	}
	for _, f := range c.Focus.TrapFeatures {
		if !validTrapFeatures[f] {
			return tserrors.New(tserrors.ErrCodeConfigInvalid, "unknown trap feature").
				WithContext("feature", f)
		}
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return tserrors.New(tserrors.ErrCodeConfigInvalid, "metrics namespace is required when metrics are enabled")
	}
	return nil
}
