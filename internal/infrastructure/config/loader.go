package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

const (
	// DefaultConfigDir is the default directory for snapguard config.
	DefaultConfigDir = ".snapguard"

	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
)

// moduleMarker stops the upward search: a config above the module root
// belongs to another project.
const moduleMarker = "go.mod"

// Loader finds and decodes configuration files.
//
// go test runs each package in its own directory, so discovery walks from
// the starting directory up to the enclosing module root and uses the
// first candidate it meets. Absolute candidates are checked as given.
type Loader struct {
	configPaths []string
}

// NewLoader creates a loader for the standard file names.
func NewLoader() *Loader {
	return &Loader{
		configPaths: []string{
			filepath.Join(DefaultConfigDir, DefaultConfigFile),
			"snapguard.yaml",
			".snapguard.yaml",
		},
	}
}

// NewLoaderWithPaths creates a loader with custom candidates.
func NewLoaderWithPaths(paths []string) *Loader {
	return &Loader{
		configPaths: paths,
	}
}

// Load discovers configuration from the working directory upward.
// Returns the defaults if nothing is found.
func (l *Loader) Load() (*Config, error) {
	return l.LoadFrom(".")
}

// LoadFrom discovers configuration from dir upward.
func (l *Loader) LoadFrom(dir string) (*Config, error) {
	path, ok, err := l.Find(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return DefaultConfig(), nil
	}
	return l.LoadFromFile(path)
}

// Find returns the first existing candidate, searching dir and then each
// parent until the directory holding go.mod or the filesystem root.
func (l *Loader) Find(dir string) (string, bool, error) {
	for _, p := range l.configPaths {
		if filepath.IsAbs(p) && fileExists(p) {
			return p, true, nil
		}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve config search directory: %w", err)
	}

	for {
		for _, p := range l.configPaths {
			if filepath.IsAbs(p) {
				continue
			}
			if candidate := filepath.Join(abs, p); fileExists(candidate) {
				return candidate, true, nil
			}
		}

		parent := filepath.Dir(abs)
		if fileExists(filepath.Join(abs, moduleMarker)) || parent == abs {
			return "", false, nil
		}
		abs = parent
	}
}

// LoadFromFile loads configuration from a specific file.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cleanPath, err)
	}

	return l.LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes.
func (l *Loader) LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigErrors{Errors: errs}
	}

	return cfg, nil
}

// LoadWithOverrides loads config and applies CLI overrides.
func (l *Loader) LoadWithOverrides(overrides *CLIOverrides) (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	return ApplyOverrides(cfg, overrides), nil
}

// LoadFromFileWithOverrides loads from a specific file and applies overrides.
func (l *Loader) LoadFromFileWithOverrides(path string, overrides *CLIOverrides) (*Config, error) {
	cfg, err := l.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return ApplyOverrides(cfg, overrides), nil
}

// CLIOverrides represents command-line configuration overrides.
type CLIOverrides struct {
	// Output settings
	Format    *string
	Verbosity *string
	NoColor   *bool

	LogLevel *string

	// Modes are merged with the configured modes, never cleared.
	Modes *snapshot.Modes

	SnapshotDir  *string
	ArtifactsDir *string
}

// ApplyOverrides applies CLI overrides to an already loaded config. A nil
// overrides value leaves cfg unchanged.
func ApplyOverrides(cfg *Config, overrides *CLIOverrides) *Config {
	if overrides == nil {
		return cfg
	}
	if overrides.Format != nil {
		cfg.Output.Format = *overrides.Format
	}
	if overrides.Verbosity != nil {
		cfg.Output.Verbosity = *overrides.Verbosity
	}
	if overrides.NoColor != nil {
		cfg.Output.Color = !*overrides.NoColor
	}
	if overrides.LogLevel != nil {
		cfg.Log.Level = strings.ToLower(*overrides.LogLevel)
	}
	if overrides.Modes != nil {
		cfg.Modes = cfg.Modes.Merge(*overrides.Modes)
	}
	if overrides.SnapshotDir != nil && *overrides.SnapshotDir != "" {
		cfg.Snapshots.Directory = *overrides.SnapshotDir
	}
	if overrides.ArtifactsDir != nil {
		cfg.Diff.ArtifactsDir = *overrides.ArtifactsDir
	}

	return cfg
}

// SaveToFile saves configuration to a file.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateDefaultConfig creates a default config file at the given path.
func GenerateDefaultConfig(path string) error {
	return SaveToFile(DefaultConfig(), path)
}

// FindConfigFile reports the configuration file Load would use.
func FindConfigFile() (string, bool) {
	path, ok, err := NewLoader().Find(".")
	if err != nil {
		return "", false
	}
	return path, ok
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigErrors wraps multiple configuration errors.
type ConfigErrors struct {
	Errors []error
}

func (e *ConfigErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no configuration errors"
	}
	if len(e.Errors) == 1 {
		return "configuration error: " + e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d configuration errors:", len(e.Errors))
	for _, err := range e.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Unwrap returns the underlying errors.
func (e *ConfigErrors) Unwrap() []error {
	return e.Errors
}
