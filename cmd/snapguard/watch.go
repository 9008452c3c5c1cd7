package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/bootstrap"
	"github.com/felixgeelhaar/snapguard/internal/infrastructure/watcher"
)

var (
	watchTestFile string
	watchDebounce time.Duration
	watchExisting bool
	watchModes    modeFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Check every PNG written to a directory",
	Long: `Monitor a render inbox and check each new or changed PNG against the
snapshots of a test file. The snapshot name is the image file name without
extension. Stored snapshots and failed variants inside the inbox are ignored.

Watch mode:
  - Polls the directory and debounces bursts of writes
  - Checks the last version of every changed image once per batch
  - Exits cleanly on Ctrl+C

Examples:
  snapguard watch ./renders --test-file login_test.go
  snapguard watch ./renders --test-file login_test.go --existing --save-failed`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchCmd,
}

func init() {
	watchCmd.Flags().StringVar(&watchTestFile, "test-file", "", "test file owning the snapshots (required)")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "debounce duration for file changes")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also check images already in the directory")
	watchModes.register(watchCmd)
	_ = watchCmd.MarkFlagRequired("test-file")
	rootCmd.AddCommand(watchCmd)
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	comps, writer, err := setup(cmd, watchModes.modes())
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWatchMode(ctx, comps, writer, args[0])
}

// runWatchMode checks images until ctx is cancelled.
func runWatchMode(ctx context.Context, comps *bootstrap.Components, writer ports.ResultWriter, dir string) error {
	_ = writer.WriteProgress(fmt.Sprintf("Watching %s for renders (Ctrl+C to exit)", dir))

	check := comps.Check(writer, nil)
	cfg := watcher.DefaultConfig(dir, func(events []watcher.Event) {
		handleWatchEvents(ctx, check, comps, writer, events)
	})
	cfg.Debounce = watchDebounce
	cfg.IncludeExisting = watchExisting
	cfg.Exclude = append(cfg.Exclude, "**/*"+comps.Config.Snapshots.FailedSuffix+".png")

	w := watcher.New(cfg)
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	<-ctx.Done()
	w.Stop()

	_ = writer.WriteProgress("Watch mode stopped")
	return nil
}

func handleWatchEvents(ctx context.Context, check *usecases.CheckSnapshotUseCase, comps *bootstrap.Components, writer ports.ResultWriter, events []watcher.Event) {
	for _, e := range watcher.Coalesce(events) {
		if ctx.Err() != nil {
			return
		}
		id := snapshot.NewIdentity(watchTestFile, nameFromFile(e.Path))
		if _, err := checkFile(ctx, check, comps, e.Path, id); err != nil {
			_ = writer.WriteError(err)
		}
	}
}
