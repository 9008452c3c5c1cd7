package usecases

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// ListSnapshotsInput contains input for listing stored snapshots.
type ListSnapshotsInput struct {
	Root string

	// Match is a doublestar glob applied to the slash-separated path
	// relative to Root, e.g. "**/TestView/*.png". Empty matches everything.
	Match string

	// FailedOnly keeps only failed variants.
	FailedOnly bool
}

// ListSnapshotsOutput contains the listing result.
type ListSnapshotsOutput struct {
	Entries     []snapshot.Entry
	FailedCount int
}

// ListSnapshotsUseCase enumerates stored snapshots.
type ListSnapshotsUseCase struct {
	catalog ports.SnapshotCatalog
	writer  ports.ResultWriter
}

// NewListSnapshotsUseCase creates a listing use case. writer may be nil.
func NewListSnapshotsUseCase(catalog ports.SnapshotCatalog, writer ports.ResultWriter) *ListSnapshotsUseCase {
	return &ListSnapshotsUseCase{catalog: catalog, writer: writer}
}

// Execute lists the snapshots under input.Root that pass the filters,
// sorted by path.
func (uc *ListSnapshotsUseCase) Execute(input ListSnapshotsInput) (ListSnapshotsOutput, error) {
	output := ListSnapshotsOutput{}

	if input.Match != "" && !doublestar.ValidatePattern(input.Match) {
		return output, fmt.Errorf("invalid match pattern: %q", input.Match)
	}

	root := input.Root
	if root == "" {
		root = "."
	}

	entries, err := uc.catalog.List(root)
	if err != nil {
		return output, fmt.Errorf("failed to list snapshots: %w", err)
	}

	for _, e := range entries {
		if input.FailedOnly && !e.Failed {
			continue
		}
		if input.Match != "" && !matchEntry(input.Match, root, e) {
			continue
		}
		output.Entries = append(output.Entries, e)
	}

	sort.Slice(output.Entries, func(i, j int) bool {
		return output.Entries[i].Path < output.Entries[j].Path
	})
	output.FailedCount = snapshot.CountFailed(output.Entries)

	if uc.writer != nil {
		if err := uc.writer.WriteEntries(output.Entries); err != nil {
			return output, fmt.Errorf("failed to write listing: %w", err)
		}
	}

	return output, nil
}

func matchEntry(pattern, root string, e snapshot.Entry) bool {
	rel, err := filepath.Rel(root, e.Path)
	if err != nil {
		rel = e.Path
	}
	ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
	return err == nil && ok
}
