package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/logging"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/writers"
	"github.com/felixgeelhaar/snapguard/pkg/exitcode"
)

// Version information set at build time
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Global flags
var (
	cfgFile      string
	verbosity    string
	noColor      bool
	jsonOutput   bool
	githubOutput bool
	logLevel     string
)

// rootCmd is the base command for snapguard
var rootCmd = &cobra.Command{
	Use:   "snapguard",
	Short: "Snapguard - Visual regression snapshots",
	Long: `Snapguard compares rendered UI images against reference snapshots
committed next to your tests.

The first check of a snapshot records it and fails. Later checks compare
byte for byte; a mismatch fails and can keep the new image as a failed
variant plus a saved/new/overlay diff image for triage.

Examples:
  snapguard check shot.png --test-file login_test.go --name button
  snapguard render --html-file card.html --test-file card_test.go --name card
  snapguard diff --test-file login_test.go --name button -o diff.png
  snapguard list --failed
  snapguard clean --failed-only
  snapguard watch ./renders --test-file login_test.go`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		return nil
	},
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Snapguard %s\n", version)
		fmt.Fprintf(out, "  Commit:  %s\n", commit)
		fmt.Fprintf(out, "  Built:   %s\n", buildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: nearest .snapguard/config.yaml, snapguard.yaml or .snapguard.yaml)")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "", "verbosity level (quiet, normal, verbose, debug)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&githubOutput, "github", false, "output GitHub Actions annotations")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

// exitError carries a specific exit code out of a command. A nil err
// means the command already reported everything.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return exitcode.Description(e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// resultsError returns nil when every result passed.
func resultsError(results []snapshot.Result) error {
	if code := exitcode.FromResults(results); code != exitcode.Success {
		return &exitError{code: code}
	}
	return nil
}

// Execute runs the root command
func Execute() int {
	return execute(rootCmd, os.Stderr)
}

func execute(cmd *cobra.Command, errOut io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return exitcode.Success
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintln(errOut, exitErr.err)
		}
		return exitErr.code
	}

	fmt.Fprintln(errOut, err)
	return exitcode.FromError(err)
}

// loadConfig loads the configuration from file, flags and environment.
func loadConfig(modes *snapshot.Modes) (*config.Config, error) {
	loader := config.NewLoader()

	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = loader.LoadFromFile(cfgFile)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg = applyOverrides(cfg, modes)
	cfg = config.ApplyEnv(cfg, os.LookupEnv)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigErrors{Errors: errs}
	}
	return cfg, nil
}

// applyOverrides applies CLI flag overrides to the config
func applyOverrides(cfg *config.Config, modes *snapshot.Modes) *config.Config {
	overrides := &config.CLIOverrides{Modes: modes}

	format := ""
	switch {
	case jsonOutput:
		format = string(ports.OutputFormatJSON)
	case githubOutput:
		format = string(ports.OutputFormatGitHubActions)
	}
	if format != "" {
		overrides.Format = &format
	}
	if verbosity != "" {
		overrides.Verbosity = &verbosity
	}
	if noColor {
		overrides.NoColor = &noColor
	}
	if logLevel != "" {
		overrides.LogLevel = &logLevel
	}

	return config.ApplyOverrides(cfg, overrides)
}

// createWriter creates the appropriate writer based on config
func createWriter(cmd *cobra.Command, cfg *config.Config) (ports.ResultWriter, error) {
	factory := writers.NewFactoryWithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	output := cfg.ToOutputConfig()
	output.Color = output.Color && !noColor
	return factory.Create(output)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Output: cmd.ErrOrStderr(),
	})
}

// setup loads config and builds the writer, logger and components shared
// by every snapshot command.
func setup(cmd *cobra.Command, modes *snapshot.Modes) (*bootstrap.Components, ports.ResultWriter, error) {
	cfg, err := loadConfig(modes)
	if err != nil {
		return nil, nil, err
	}
	writer, err := createWriter(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return bootstrap.New(cfg, newLogger(cmd, cfg)), writer, nil
}

// modeFlags binds the mode switches shared by check, render and watch.
type modeFlags struct {
	record     bool
	debug      bool
	deleteSnap bool
	saveFailed bool
}

func (m *modeFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&m.record, "record", false, "overwrite stored snapshots with the new image")
	cmd.Flags().BoolVar(&m.debug, "debug", false, "re-record and verify the write")
	cmd.Flags().BoolVar(&m.deleteSnap, "delete", false, "delete stored snapshots")
	cmd.Flags().BoolVar(&m.saveFailed, "save-failed", false, "keep the new image next to a mismatching snapshot")
}

func (m *modeFlags) modes() *snapshot.Modes {
	return &snapshot.Modes{
		RecordNew:         m.record,
		Debug:             m.debug,
		DeleteExisting:    m.deleteSnap,
		SaveFailedVariant: m.saveFailed,
	}
}
