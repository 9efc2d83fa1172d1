package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Settings holds the wrapper configuration. It is loaded once at start.
type Settings struct {
	// InjectionIntervalMs is the minimum spacing between two suggestions.
	InjectionIntervalMs uint64 `toml:"injection_interval_ms" yaml:"injection_interval_ms" envconfig:"CTXOPT_INJECTION_INTERVAL_MS"`
	SuggestionsEnabled  bool   `toml:"suggestions_enabled" yaml:"suggestions_enabled" envconfig:"CTXOPT_SUGGESTIONS_ENABLED"`
	Verbose             bool   `toml:"verbose" yaml:"verbose" envconfig:"CTXOPT_VERBOSE"`

	// Command is the interactive CLI to host.
	Command string `toml:"command" yaml:"command" envconfig:"CTXOPT_COMMAND"`
	// Profile, when set, is passed to the CLI as --profile.
	Profile string `toml:"profile,omitempty" yaml:"profile,omitempty" envconfig:"CTXOPT_PROFILE"`

	LargeOutputBytes int `toml:"large_output_bytes" yaml:"large_output_bytes" envconfig:"CTXOPT_LARGE_OUTPUT_BYTES"`
	HistoryBytes     int `toml:"history_bytes" yaml:"history_bytes" envconfig:"CTXOPT_HISTORY_BYTES"`

	Logging LogConfig     `toml:"logging" yaml:"logging"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `toml:"level" yaml:"level" envconfig:"CTXOPT_LOG_LEVEL"`
	Development bool   `toml:"development" yaml:"development" envconfig:"CTXOPT_LOG_DEV"`
	// File receives log output. Empty means the default file in Dir().
	File string `toml:"file,omitempty" yaml:"file,omitempty" envconfig:"CTXOPT_LOG_FILE"`
}

// MetricsConfig holds the status endpoint configuration.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" envconfig:"CTXOPT_METRICS_ENABLED"`
	Address string `toml:"address" yaml:"address" envconfig:"CTXOPT_METRICS_ADDR"`
}

// Default returns default settings.
func Default() *Settings {
	return &Settings{
		InjectionIntervalMs: 5000,
		SuggestionsEnabled:  true,
		Verbose:             false,
		Command:             "claude",
		LargeOutputBytes:    16 * 1024,
		HistoryBytes:        64 * 1024,
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: "127.0.0.1:9464",
		},
	}
}

// InjectionInterval returns InjectionIntervalMs as a duration.
func (s *Settings) InjectionInterval() time.Duration {
	return time.Duration(s.InjectionIntervalMs) * time.Millisecond
}

// LogLevel returns the effective log level; Verbose forces debug.
func (s *Settings) LogLevel() string {
	if s.Verbose {
		return "debug"
	}
	return s.Logging.Level
}

// Validate checks settings for values the wrapper cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Command) == "" {
		errs = append(errs, errors.New("command must not be empty"))
	}
	if s.LargeOutputBytes < 0 {
		errs = append(errs, fmt.Errorf("large_output_bytes must not be negative, got %d", s.LargeOutputBytes))
	}
	if s.HistoryBytes < 0 {
		errs = append(errs, fmt.Errorf("history_bytes must not be negative, got %d", s.HistoryBytes))
	}
	if s.Metrics.Enabled && s.Metrics.Address == "" {
		errs = append(errs, errors.New("metrics.address is required when metrics are enabled"))
	}
	return errors.Join(errs...)
}

// Dir returns the settings directory, ~/.ctxopt.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ctxopt"), nil
}

// DefaultPath returns ~/.ctxopt/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads settings from path, then applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes settings to path, creating parent directories.
func Save(path string, cfg *Settings) error {
	data, err := encode(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, cfg *Settings) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return toml.Unmarshal(data, cfg)
}

func encode(path string, cfg *Settings) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(cfg)
	}
	return toml.Marshal(cfg)
}
