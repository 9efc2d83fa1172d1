package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func readLog(t *testing.T, logger *Logger, path string) string {
	t.Helper()
	_ = logger.Sync()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	tests := []string{"loud", "chatty"}

	for _, level := range tests {
		t.Run(level, func(t *testing.T) {
			_, err := New(Config{Level: level})
			require.Error(t, err)
			assert.Contains(t, err.Error(), level)
		})
	}
}

func TestFileLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ctxopt.log")

	cfg, err := FileConfig(DefaultConfig(), path)
	require.NoError(t, err)

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Named("pty").WithSession("sess_123").Info("Session started", zap.Int("pid", 42))
	logger.Debug("filtered at info level")

	lines := strings.Split(strings.TrimSpace(readLog(t, logger, path)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "pty", entry["logger"])
	assert.Equal(t, "Session started", entry["message"])
	assert.Equal(t, "sess_123", entry["session_id"])
	assert.EqualValues(t, 42, entry["pid"])
	assert.Contains(t, entry, "timestamp")
}

func TestDevelopmentLoggerWritesConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")

	cfg, err := FileConfig(DevelopmentConfig(), path)
	require.NoError(t, err)

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Debug("Resized", zap.String("size", "40x120"))

	out := readLog(t, logger, path)
	assert.Contains(t, out, "\tDEBUG\t")
	assert.Contains(t, out, "Resized")
	assert.NotContains(t, out, "\x1b[")
	assert.False(t, strings.HasPrefix(out, "{"))
}

func TestConfigs(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		level string
		dev   bool
	}{
		{name: "default", cfg: DefaultConfig(), level: "info", dev: false},
		{name: "development", cfg: DevelopmentConfig(), level: "debug", dev: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, tt.cfg.Level)
			assert.Equal(t, tt.dev, tt.cfg.Development)
			assert.Equal(t, []string{"stderr"}, tt.cfg.OutputPaths)
		})
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { NewNop().Named("host").WithSession("sess_1").Info("discarded") })
}
