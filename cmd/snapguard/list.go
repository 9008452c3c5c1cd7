package main

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/snapguard/internal/application/usecases"
)

var (
	listMatch  string
	listFailed bool
)

var listCmd = &cobra.Command{
	Use:   "list [root]",
	Short: "List stored snapshots",
	Long: `List every snapshot and failed variant stored under a directory.

--match takes a doublestar pattern relative to root.

Examples:
  snapguard list
  snapguard list ./ui --failed
  snapguard list --match "**/login_test/*"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "only list paths matching this pattern")
	listCmd.Flags().BoolVar(&listFailed, "failed", false, "only list failed variants")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	comps, writer, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer func() { _ = writer.Flush() }()

	_, err = comps.List(writer).Execute(usecases.ListSnapshotsInput{
		Root:       rootArg(args),
		Match:      listMatch,
		FailedOnly: listFailed,
	})
	return err
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
