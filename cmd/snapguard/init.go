package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/infrastructure/config"
)

// initConfigPath is where init writes the configuration.
const initConfigPath = ".snapguard.yaml"

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize snapguard configuration",
	Long: `Initialize snapguard configuration for your project.

This command writes .snapguard.yaml with the default settings: the
snapshot directory name, failed variant suffix, diff artifacts directory
and render viewport.

Examples:
  snapguard init              # Initialize in current directory
  snapguard init --force      # Overwrite existing configuration`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing configuration")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	if noColor {
		green = fmt.Sprint
		yellow = fmt.Sprint
		bold = fmt.Sprint
	}

	out := cmd.OutOrStdout()

	if _, err := os.Stat(initConfigPath); err == nil {
		if !initForce {
			return fmt.Errorf("configuration already exists at %s\nUse --force to overwrite", initConfigPath)
		}
		fmt.Fprintf(out, "%s Overwriting existing configuration\n", yellow("!"))
	}

	if err := config.GenerateDefaultConfig(initConfigPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(out, "%s Created %s\n", green("✓"), initConfigPath)

	defaults := config.DefaultConfig()
	fmt.Fprintf(out, "\n%s\n", bold("Next Steps:"))
	fmt.Fprintf(out, "  1. Review %s\n", initConfigPath)
	fmt.Fprintf(out, "  2. Commit the %s directories next to your tests\n", defaults.Snapshots.Directory)
	fmt.Fprintf(out, "  3. Ignore %s and *%s.png in version control\n", defaults.Lock.Dir, defaults.Snapshots.FailedSuffix)
	fmt.Fprintln(out, "  4. Run 'snapguard check <image.png> --test-file <file>' to record a first snapshot")

	return nil
}
