package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
)

func TestRootCmd(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "snapguard-mcp", rootCmd.Use)
	assert.Contains(t, rootCmd.Short, "MCP")
}

func TestRootCmd_Flags(t *testing.T) {
	assert.NotNil(t, rootCmd.Flags().Lookup("transport"))
	assert.NotNil(t, rootCmd.Flags().Lookup("http-addr"))
	assert.NotNil(t, rootCmd.Flags().Lookup("config"))
}

func withConfigPath(t *testing.T, path string) {
	t.Helper()
	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })
}

func TestLoadConfig_Default(t *testing.T) {
	t.Chdir(t.TempDir())
	withConfigPath(t, "")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "__snapshots__", cfg.Snapshots.Directory)
}

func TestLoadConfig_FromFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`version: "1"
snapshots:
  directory: golden
mcp:
  max_entries: 25
`)
	require.NoError(t, os.WriteFile(cfgPath, content, 0o644))
	withConfigPath(t, cfgPath)

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "golden", cfg.Snapshots.Directory)
	assert.Equal(t, 25, cfg.MCP.MaxEntries)
}

func TestLoadConfig_EnvModes(t *testing.T) {
	t.Chdir(t.TempDir())
	withConfigPath(t, "")
	t.Setenv("SNAPGUARD_RECORD", "true")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.True(t, cfg.Modes.RecordNew)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	withConfigPath(t, "/nonexistent/path/config.yaml")

	_, err := loadConfig()

	assert.Error(t, err)
}

func TestRunServer_InvalidTransport(t *testing.T) {
	old := transport
	transport = "carrier-pigeon"
	t.Cleanup(func() { transport = old })

	err := runServer(rootCmd, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported transport")
}

func TestNewLogger_UsesConfiguredLevel(t *testing.T) {
	tests := []struct {
		level     string
		debugOn   bool
		warningOn bool
	}{
		{"debug", true, true},
		{"warn", false, true},
		{"error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Log.Level = tt.level
			var buf bytes.Buffer

			logger := newLogger(cfg, &buf)

			ctx := context.Background()
			assert.Equal(t, tt.debugOn, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warningOn, logger.Enabled(ctx, slog.LevelWarn))
		})
	}
}
