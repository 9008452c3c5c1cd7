package config

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// Config represents the complete snapguard configuration.
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Snapshots SnapshotsConfig `yaml:"snapshots" json:"snapshots"`
	Modes     snapshot.Modes  `yaml:"modes" json:"modes"`
	Diff      DiffConfig      `yaml:"diff" json:"diff"`
	Render    RenderConfig    `yaml:"render" json:"render"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Log       LogConfig       `yaml:"log" json:"log"`
	Lock      LockConfig      `yaml:"lock" json:"lock"`
	MCP       MCPConfig       `yaml:"mcp" json:"mcp"`
}

// SnapshotsConfig defines where and how snapshots are stored.
type SnapshotsConfig struct {
	Directory    string `yaml:"directory" json:"directory"`         // created next to each test file
	FailedSuffix string `yaml:"failed_suffix" json:"failed_suffix"` // appended to failed variants
	StrictDecode bool   `yaml:"strict_decode" json:"strict_decode"` // corrupt baselines are errors
}

// DiffConfig controls the comparison image written on mismatch.
type DiffConfig struct {
	Enabled      bool   `yaml:"enabled" json:"enabled"`
	ArtifactsDir string `yaml:"artifacts_dir" json:"artifacts_dir"`
	Gap          int    `yaml:"gap" json:"gap"`
	HeaderHeight int    `yaml:"header_height" json:"header_height"`
}

// RenderConfig configures the headless browser renderer.
type RenderConfig struct {
	// RemoteURL connects to an existing DevTools endpoint instead of
	// launching a browser.
	RemoteURL    string        `yaml:"remote_url" json:"remote_url"`
	Width        int           `yaml:"width" json:"width"`
	Height       int           `yaml:"height" json:"height"`
	Scale        float64       `yaml:"scale" json:"scale"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	WaitSelector string        `yaml:"wait_selector" json:"wait_selector"`
}

// OutputConfig defines output settings.
type OutputConfig struct {
	Format    string `yaml:"format" json:"format"`       // console, json, github
	Verbosity string `yaml:"verbosity" json:"verbosity"` // quiet, normal, verbose, debug
	Color     bool   `yaml:"color" json:"color"`
}

// LogConfig defines diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"` // debug, info, warn, error
}

// LockConfig defines where cross-process lock files live.
type LockConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// MCPConfig defines MCP server limits.
type MCPConfig struct {
	MaxEntries int `yaml:"max_entries" json:"max_entries"` // 0 = unlimited
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Snapshots: SnapshotsConfig{
			Directory:    "__snapshots__",
			FailedSuffix: "-FAILED",
		},
		Diff: DiffConfig{
			Enabled:      true,
			ArtifactsDir: ".snapguard/diffs",
			Gap:          8,
			HeaderHeight: 18,
		},
		Render: RenderConfig{
			Width:   1280,
			Height:  720,
			Scale:   1,
			Timeout: 30 * time.Second,
		},
		Output: OutputConfig{
			Format:    "console",
			Verbosity: "normal",
			Color:     true,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Lock: LockConfig{
			Dir: ".snapguard",
		},
		MCP: MCPConfig{
			MaxEntries: 500,
		},
	}
}

// GetOutputFormat returns the output format as a ports.OutputFormat.
func (c *Config) GetOutputFormat() ports.OutputFormat {
	switch c.Output.Format {
	case "json":
		return ports.OutputFormatJSON
	case "github":
		return ports.OutputFormatGitHubActions
	default:
		return ports.OutputFormatConsole
	}
}

// GetVerbosity returns the verbosity as a ports.Verbosity.
func (c *Config) GetVerbosity() ports.Verbosity {
	return ports.ParseVerbosity(c.Output.Verbosity)
}

// ToOutputConfig converts to the writer configuration.
func (c *Config) ToOutputConfig() ports.OutputConfig {
	return ports.OutputConfig{
		Format:    c.GetOutputFormat(),
		Verbosity: c.GetVerbosity(),
		Color:     c.Output.Color,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() []error {
	var errs []error

	if c.Version == "" {
		errs = append(errs, &ValidationError{Field: "version", Message: "version is required"})
	}

	if strings.TrimSpace(c.Snapshots.Directory) == "" {
		errs = append(errs, &ValidationError{Field: "snapshots.directory", Message: "directory is required"})
	} else if strings.ContainsAny(c.Snapshots.Directory, `/\`) {
		errs = append(errs, &ValidationError{Field: "snapshots.directory", Message: "must be a single directory name"})
	}
	if c.Snapshots.FailedSuffix == "" {
		errs = append(errs, &ValidationError{Field: "snapshots.failed_suffix", Message: "failed suffix is required"})
	}

	if c.Diff.Gap < 0 {
		errs = append(errs, &ValidationError{Field: "diff.gap", Message: "must be non-negative"})
	}
	if c.Diff.HeaderHeight < 0 {
		errs = append(errs, &ValidationError{Field: "diff.header_height", Message: "must be non-negative"})
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, &ValidationError{Field: "render", Message: "width and height must be positive"})
	}
	if c.Render.Scale <= 0 {
		errs = append(errs, &ValidationError{Field: "render.scale", Message: "must be positive"})
	}
	if c.Render.Timeout < 0 {
		errs = append(errs, &ValidationError{Field: "render.timeout", Message: "must be non-negative"})
	}

	validFormats := map[string]bool{"console": true, "json": true, "github": true}
	if c.Output.Format != "" && !validFormats[c.Output.Format] {
		errs = append(errs, &ValidationError{
			Field:   "output.format",
			Message: "must be one of: console, json, github",
		})
	}

	validVerbosity := map[string]bool{"quiet": true, "normal": true, "verbose": true, "debug": true}
	if c.Output.Verbosity != "" && !validVerbosity[c.Output.Verbosity] {
		errs = append(errs, &ValidationError{
			Field:   "output.verbosity",
			Message: "must be one of: quiet, normal, verbose, debug",
		})
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, &ValidationError{
			Field:   "log.level",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if c.MCP.MaxEntries < 0 {
		errs = append(errs, &ValidationError{Field: "mcp.max_entries", Message: "must be non-negative"})
	}

	return errs
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
