package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
)

var (
	cleanMatch      string
	cleanFailedOnly bool
	cleanDryRun     bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [root]",
	Short: "Delete stored snapshots in bulk",
	Long: `Delete every snapshot stored under a directory, or only the failed
variants. A lock in lock.dir keeps two cleans from running at once.

Examples:
  snapguard clean --failed-only
  snapguard clean ./ui --dry-run
  snapguard clean --match "**/legacy_test/*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVar(&cleanMatch, "match", "", "only delete paths matching this pattern")
	cleanCmd.Flags().BoolVar(&cleanFailedOnly, "failed-only", false, "only delete failed variants")
	cleanCmd.Flags().BoolVar(&cleanDryRun, "dry-run", false, "list what would be deleted")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	comps, writer, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	out, err := comps.Clean(writer).Execute(usecases.CleanSnapshotsInput{
		Root:       rootArg(args),
		Match:      cleanMatch,
		FailedOnly: cleanFailedOnly,
		DryRun:     cleanDryRun,
	})
	if err != nil {
		return err
	}
	if cleanDryRun {
		return writer.WriteEntries(out.Removed)
	}
	return nil
}
