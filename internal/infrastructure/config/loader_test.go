package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()

	assert.NotNil(t, loader)
	assert.Equal(t, []string{
		filepath.Join(".snapguard", "config.yaml"),
		"snapguard.yaml",
		".snapguard.yaml",
	}, loader.configPaths)
}

func TestNewLoaderWithPaths(t *testing.T) {
	paths := []string{"custom.yaml", "other.yaml"}
	loader := NewLoaderWithPaths(paths)

	assert.Equal(t, paths, loader.configPaths)
}

func TestLoader_Load_NoFile(t *testing.T) {
	loader := NewLoaderWithPaths([]string{"/nonexistent/config.yaml"})

	cfg, err := loader.Load()

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_Load_FirstExistingWins(t *testing.T) {
	tmpDir := t.TempDir()
	first := filepath.Join(tmpDir, "first.yaml")
	second := filepath.Join(tmpDir, "second.yaml")
	require.NoError(t, os.WriteFile(second, []byte("version: \"1\"\nlog:\n  level: debug\n"), 0o600))

	cfg, err := NewLoaderWithPaths([]string{first, second}).Load()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_LoadFromBytes_ValidYAML(t *testing.T) {
	loader := NewLoader()
	yaml := []byte(`
version: "1"
snapshots:
  directory: golden
  failed_suffix: .failed
  strict_decode: true
modes:
  record: true
  save_failed: true
diff:
  artifacts_dir: out/diffs
  gap: 4
render:
  width: 800
  height: 600
  timeout: 5s
  wait_selector: "#ready"
output:
  format: json
  verbosity: verbose
  color: false
`)

	cfg, err := loader.LoadFromBytes(yaml)

	require.NoError(t, err)
	assert.Equal(t, "golden", cfg.Snapshots.Directory)
	assert.Equal(t, ".failed", cfg.Snapshots.FailedSuffix)
	assert.True(t, cfg.Snapshots.StrictDecode)
	assert.Equal(t, snapshot.Modes{RecordNew: true, SaveFailedVariant: true}, cfg.Modes)
	assert.Equal(t, "out/diffs", cfg.Diff.ArtifactsDir)
	assert.Equal(t, 4, cfg.Diff.Gap)
	assert.Equal(t, 18, cfg.Diff.HeaderHeight, "unset fields keep defaults")
	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 5*time.Second, cfg.Render.Timeout)
	assert.Equal(t, "#ready", cfg.Render.WaitSelector)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Color)
}

func TestLoader_LoadFromBytes_InvalidYAML(t *testing.T) {
	loader := NewLoader()

	_, err := loader.LoadFromBytes([]byte(`{invalid yaml`))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoader_LoadFromBytes_InvalidConfig(t *testing.T) {
	loader := NewLoader()
	yaml := []byte(`
version: ""
output:
  format: sarif
`)

	_, err := loader.LoadFromBytes(yaml)

	require.Error(t, err)
	var cfgErrs *ConfigErrors
	require.True(t, errors.As(err, &cfgErrs))
	assert.Len(t, cfgErrs.Errors, 2)
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1\"\nmcp:\n  max_entries: 10\n"), 0o644))

	cfg, err := NewLoader().LoadFromFile(configPath)

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MCP.MaxEntries)
}

func TestLoader_LoadFromFile_NotFound(t *testing.T) {
	_, err := NewLoader().LoadFromFile("/nonexistent/config.yaml")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoader_LoadFromFile_InvalidPath(t *testing.T) {
	_, err := NewLoader().LoadFromFile("")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config path")
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	format := "json"
	verbosity := "quiet"
	noColor := true
	level := "DEBUG"
	dir := "golden"
	artifacts := ""
	modes := snapshot.Modes{Debug: true}

	loader := NewLoaderWithPaths([]string{"/nonexistent/config.yaml"})
	cfg, err := loader.LoadWithOverrides(&CLIOverrides{
		Format:       &format,
		Verbosity:    &verbosity,
		NoColor:      &noColor,
		LogLevel:     &level,
		Modes:        &modes,
		SnapshotDir:  &dir,
		ArtifactsDir: &artifacts,
	})

	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "quiet", cfg.Output.Verbosity)
	assert.False(t, cfg.Output.Color)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Modes.Debug)
	assert.Equal(t, "golden", cfg.Snapshots.Directory)
	assert.Empty(t, cfg.Diff.ArtifactsDir)
}

func TestLoader_LoadWithOverrides_ModesMerge(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("version: \"1\"\nmodes:\n  save_failed: true\n"), 0o644))
	modes := snapshot.Modes{RecordNew: true}

	cfg, err := NewLoader().LoadFromFileWithOverrides(configPath, &CLIOverrides{Modes: &modes})

	require.NoError(t, err)
	assert.Equal(t, snapshot.Modes{RecordNew: true, SaveFailedVariant: true}, cfg.Modes)
}

func TestLoader_LoadWithOverrides_Nil(t *testing.T) {
	cfg, err := NewLoaderWithPaths(nil).LoadWithOverrides(nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snapguard.yaml")
	cfg := DefaultConfig()
	cfg.Render.Timeout = 90 * time.Second
	cfg.Modes.SaveFailedVariant = true

	require.NoError(t, SaveToFile(cfg, path))
	loaded, err := NewLoader().LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestGenerateDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".snapguard.yaml")

	require.NoError(t, GenerateDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "__snapshots__")
	assert.Contains(t, string(data), "-FAILED")
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	_, found := FindConfigFile()
	assert.False(t, found)

	require.NoError(t, os.WriteFile("snapguard.yaml", []byte("version: \"1\"\n"), 0o600))
	path, found := FindConfigFile()
	assert.True(t, found)
	assert.Equal(t, "snapguard.yaml", filepath.Base(path))
	assert.FileExists(t, path)
}

func TestLoader_Find_WalksUpToModuleRoot(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "internal", "ui")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".snapguard.yaml"), []byte("version: \"1\"\nlog:\n  level: error\n"), 0o600))

	path, found, err := NewLoader().Find(pkgDir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, filepath.Join(root, ".snapguard.yaml"), path)

	cfg, err := NewLoader().LoadFrom(pkgDir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoader_Find_StopsAtModuleRoot(t *testing.T) {
	outer := t.TempDir()
	module := filepath.Join(outer, "app")
	require.NoError(t, os.MkdirAll(module, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(outer, "snapguard.yaml"), []byte("version: \"1\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(module, "go.mod"), []byte("module example.com/app\n"), 0o600))

	_, found, err := NewLoader().Find(module)
	require.NoError(t, err)
	assert.False(t, found)

	cfg, err := NewLoader().LoadFrom(module)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_Find_NearestWins(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "pkg")
	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, DefaultConfigDir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/app\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "snapguard.yaml"), []byte("version: \"1\"\n"), 0o600))
	nearest := filepath.Join(pkgDir, DefaultConfigDir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(nearest, []byte("version: \"1\"\n"), 0o600))

	path, found, err := NewLoader().Find(pkgDir)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, nearest, path)
}

func TestConfigErrors_Error(t *testing.T) {
	tests := []struct {
		name     string
		errs     []error
		contains string
	}{
		{"empty", nil, "no configuration errors"},
		{"single", []error{&ValidationError{Field: "a", Message: "b"}}, "configuration error: a: b"},
		{"multiple", []error{errors.New("x"), errors.New("y")}, "2 configuration errors:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &ConfigErrors{Errors: tt.errs}
			assert.Contains(t, e.Error(), tt.contains)
		})
	}
}

func TestConfigErrors_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &ConfigErrors{Errors: []error{inner}}

	assert.ErrorIs(t, err, inner)
}

func TestApplyOverrides(t *testing.T) {
	format := "json"
	level := "DEBUG"
	noColor := true
	artifacts := ""

	cfg := ApplyOverrides(DefaultConfig(), &CLIOverrides{
		Format:       &format,
		LogLevel:     &level,
		NoColor:      &noColor,
		ArtifactsDir: &artifacts,
		Modes:        &snapshot.Modes{Debug: true},
	})

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Output.Color)
	assert.Empty(t, cfg.Diff.ArtifactsDir)
	assert.True(t, cfg.Modes.Debug)
	assert.Equal(t, "__snapshots__", cfg.Snapshots.Directory)
}

func TestApplyOverrides_Nil(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Modes.RecordNew = true

	got := ApplyOverrides(cfg, nil)

	assert.Same(t, cfg, got)
	assert.True(t, got.Modes.RecordNew)
}
