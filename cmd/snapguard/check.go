package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/pkg/exitcode"
	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
)

var (
	checkTestFile string
	checkName     string
	checkModes    modeFlags
)

var checkCmd = &cobra.Command{
	Use:   "check <image.png>...",
	Short: "Check images against their stored snapshots",
	Long: `Resolve one or more PNG images against the snapshots of a test file.

Each image is stored as <dir of test file>/__snapshots__/<test file stem>/<name>.png.
The snapshot name defaults to the image file name without extension.

Exit codes:
  0  every image matched its snapshot
  1  a snapshot was missing, mismatched, recorded or deleted
  2  an image could not be read or storage failed

Examples:
  snapguard check out/button.png --test-file login_test.go
  snapguard check shot.png --test-file login_test.go --name primary --save-failed
  snapguard check out/*.png --test-file login_test.go --record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkTestFile, "test-file", "", "test file owning the snapshots (required)")
	checkCmd.Flags().StringVar(&checkName, "name", "", "snapshot name (single image only)")
	checkModes.register(checkCmd)
	_ = checkCmd.MarkFlagRequired("test-file")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkName != "" && len(args) > 1 {
		return fmt.Errorf("--name can only be used with a single image")
	}

	comps, writer, err := setup(cmd, checkModes.modes())
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	check := comps.Check(writer, nil)
	var results []snapshot.Result
	for _, path := range args {
		name := checkName
		if name == "" {
			name = nameFromFile(path)
		}

		result, err := checkFile(cmdContext(cmd), check, comps, path, snapshot.NewIdentity(checkTestFile, name))
		if err != nil {
			_ = writer.WriteError(err)
			return &exitError{code: exitcode.Error}
		}
		results = append(results, result)
	}

	return resultsError(results)
}

func checkFile(ctx context.Context, check *usecases.CheckSnapshotUseCase, comps *bootstrap.Components, path string, id snapshot.Identity) (snapshot.Result, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return snapshot.Result{}, fmt.Errorf("invalid image path: %w", err)
	}
	data, err := os.ReadFile(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return snapshot.Result{}, fmt.Errorf("failed to read image: %w", err)
	}

	out, err := check.Execute(ctx, usecases.CheckSnapshotInput{
		Identity: id,
		Modes:    comps.Config.Modes,
		Data:     data,
	})
	if err != nil {
		return snapshot.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return out.Result, nil
}

// nameFromFile derives a snapshot name from an image file name.
func nameFromFile(path string) string {
	base := filepath.Base(path)
	return pathutil.SanitizeName(strings.TrimSuffix(base, filepath.Ext(base)))
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
