package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, uint64(5000), cfg.InjectionIntervalMs)
	assert.True(t, cfg.SuggestionsEnabled)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "claude", cfg.Command)
	assert.Empty(t, cfg.Profile)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9464", cfg.Metrics.Address)

	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
injection_interval_ms = 1500
suggestions_enabled = false
verbose = true
profile = "work"

[logging]
level = "warn"

[metrics]
enabled = true
address = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(1500), cfg.InjectionIntervalMs)
	assert.False(t, cfg.SuggestionsEnabled)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "work", cfg.Profile)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Metrics.Address)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, "claude", cfg.Command)
	assert.Equal(t, 64*1024, cfg.HistoryBytes)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
injection_interval_ms: 250
command: bash
logging:
  level: debug
  development: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(250), cfg.InjectionIntervalMs)
	assert.Equal(t, "bash", cfg.Command)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.True(t, cfg.SuggestionsEnabled)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	path := writeFile(t, "config.toml", `
injection_interval_ms = 1500
command = "bash"
`)

	envVars := map[string]string{
		"CTXOPT_INJECTION_INTERVAL_MS": "42",
		"CTXOPT_SUGGESTIONS_ENABLED":   "false",
		"CTXOPT_VERBOSE":               "true",
		"CTXOPT_PROFILE":               "ci",
		"CTXOPT_LOG_LEVEL":             "error",
		"CTXOPT_LOG_FILE":              "/tmp/ctxopt.log",
		"CTXOPT_METRICS_ENABLED":       "true",
		"CTXOPT_METRICS_ADDR":          "127.0.0.1:1234",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.InjectionIntervalMs)
	assert.False(t, cfg.SuggestionsEnabled)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, "ci", cfg.Profile)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/ctxopt.log", cfg.Logging.File)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:1234", cfg.Metrics.Address)

	// Not overridden, so the file value stays.
	assert.Equal(t, "bash", cfg.Command)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "malformed toml",
			file:    "config.toml",
			content: "injection_interval_ms = [",
			wantErr: "failed to parse config",
		},
		{
			name:    "wrong type",
			file:    "config.toml",
			content: `injection_interval_ms = "soon"`,
			wantErr: "failed to parse config",
		},
		{
			name:    "bad env value",
			file:    "config.toml",
			env:     map[string]string{"CTXOPT_VERBOSE": "maybe"},
			wantErr: "environment",
		},
		{
			name:    "empty command",
			file:    "config.toml",
			content: `command = ""`,
			wantErr: "command must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			path := writeFile(t, tt.file, tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "blank command", mutate: func(s *Settings) { s.Command = "  " }, wantErr: "command"},
		{name: "negative large output", mutate: func(s *Settings) { s.LargeOutputBytes = -1 }, wantErr: "large_output_bytes"},
		{name: "negative history", mutate: func(s *Settings) { s.HistoryBytes = -5 }, wantErr: "history_bytes"},
		{
			name:    "metrics without address",
			mutate:  func(s *Settings) { s.Metrics.Enabled = true; s.Metrics.Address = "" },
			wantErr: "metrics.address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveThenLoad(t *testing.T) {
	for _, name := range []string{"nested/config.toml", "nested/config.yml"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.InjectionIntervalMs = 900
			cfg.Profile = "personal"
			cfg.Metrics.Enabled = true

			require.NoError(t, Save(path, cfg))

			loaded, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestInjectionInterval(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 5*time.Second, cfg.InjectionInterval())

	cfg.InjectionIntervalMs = 0
	assert.Zero(t, cfg.InjectionInterval())
}

func TestLogLevel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.LogLevel())

	cfg.Verbose = true
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".ctxopt", "config.toml"), path)
}
