package config

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1", cfg.Version)
	assert.Equal(t, "__snapshots__", cfg.Snapshots.Directory)
	assert.Equal(t, "-FAILED", cfg.Snapshots.FailedSuffix)
	assert.False(t, cfg.Snapshots.StrictDecode)
	assert.True(t, cfg.Modes.IsZero())
	assert.Equal(t, 8, cfg.Diff.Gap)
	assert.Equal(t, 18, cfg.Diff.HeaderHeight)
	assert.Equal(t, 30*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "console", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Empty(t, cfg.Validate())
}

func TestConfig_GetOutputFormat(t *testing.T) {
	tests := []struct {
		format   string
		expected ports.OutputFormat
	}{
		{"console", ports.OutputFormatConsole},
		{"json", ports.OutputFormatJSON},
		{"github", ports.OutputFormatGitHubActions},
		{"", ports.OutputFormatConsole},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Output.Format = tt.format
			assert.Equal(t, tt.expected, cfg.GetOutputFormat())
		})
	}
}

func TestConfig_ToOutputConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Verbosity = "debug"
	cfg.Output.Color = false

	out := cfg.ToOutputConfig()

	assert.Equal(t, ports.OutputFormatConsole, out.Format)
	assert.Equal(t, ports.VerbosityDebug, out.Verbosity)
	assert.False(t, out.Color)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing version", func(c *Config) { c.Version = "" }, "version"},
		{"empty directory", func(c *Config) { c.Snapshots.Directory = " " }, "snapshots.directory"},
		{"nested directory", func(c *Config) { c.Snapshots.Directory = "a/b" }, "snapshots.directory"},
		{"empty suffix", func(c *Config) { c.Snapshots.FailedSuffix = "" }, "snapshots.failed_suffix"},
		{"negative gap", func(c *Config) { c.Diff.Gap = -1 }, "diff.gap"},
		{"negative header", func(c *Config) { c.Diff.HeaderHeight = -1 }, "diff.header_height"},
		{"zero viewport", func(c *Config) { c.Render.Width = 0 }, "render"},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, "render.scale"},
		{"negative timeout", func(c *Config) { c.Render.Timeout = -time.Second }, "render.timeout"},
		{"bad format", func(c *Config) { c.Output.Format = "sarif" }, "output.format"},
		{"bad verbosity", func(c *Config) { c.Output.Verbosity = "loud" }, "output.verbosity"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"negative max entries", func(c *Config) { c.MCP.MaxEntries = -1 }, "mcp.max_entries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()

			if assert.Len(t, errs, 1) {
				ve, ok := errs[0].(*ValidationError)
				if assert.True(t, ok) {
					assert.Equal(t, tt.field, ve.Field)
				}
			}
		})
	}
}

func TestConfig_Validate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "DEBUG"

	assert.Empty(t, cfg.Validate())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "output.format", Message: "bad"}

	assert.Equal(t, "output.format: bad", err.Error())
}
