package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
)

var (
	diffTestFile string
	diffName     string
	diffOutput   string
)

var diffCmd = &cobra.Command{
	Use:   "diff [saved.png new.png]",
	Short: "Compose a saved/new/overlay diff image",
	Long: `Compose a triage image: the saved snapshot and the new image side by
side on top, and the new image blended over the saved one below.

Either pass two PNG files, or select a stored snapshot whose failed
variant exists with --test-file and --name.

Examples:
  snapguard diff --test-file login_test.go --name button
  snapguard diff --test-file login_test.go --name button -o /tmp/button-diff.png
  snapguard diff before.png after.png -o diff.png`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected either no arguments or two image files, got %d", len(args))
		}
		return nil
	},
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().StringVar(&diffTestFile, "test-file", "", "test file owning the snapshot")
	diffCmd.Flags().StringVar(&diffName, "name", "", "snapshot name")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "", "output PNG (default: diff.artifacts_dir)")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	comps, writer, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	input := usecases.ComposeDiffInput{Output: diffOutput}

	if len(args) == 2 {
		if diffOutput == "" {
			return fmt.Errorf("--output is required when comparing two files")
		}
		if input.Saved, err = readBitmap(args[0]); err != nil {
			return err
		}
		if input.New, err = readBitmap(args[1]); err != nil {
			return err
		}
	} else {
		if diffTestFile == "" || diffName == "" {
			return fmt.Errorf("--test-file and --name are required without image arguments")
		}
		input.Identity = snapshot.NewIdentity(diffTestFile, diffName)
		if err := input.Identity.Validate(); err != nil {
			return err
		}
		if input.Output == "" {
			input.Output = usecases.DiffPathFor(comps.Config.Diff.ArtifactsDir, input.Identity)
		}
	}

	out, err := comps.Diff.Execute(input)
	if err != nil {
		return err
	}

	bounds := out.Composite.Bounds()
	return writer.WriteProgress(fmt.Sprintf("Wrote diff image %s (%dx%d)", out.Path, bounds.Dx(), bounds.Dy()))
}

func readBitmap(path string) (*snapshot.Bitmap, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid image path: %w", err)
	}
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	b, err := snapshot.DecodeBitmap(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
