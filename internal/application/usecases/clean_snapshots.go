package usecases

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// CleanLockName is the lock held while a bulk deletion runs.
const CleanLockName = "clean"

// ErrCleanInProgress is returned when another process holds the clean lock.
var ErrCleanInProgress = errors.New("another clean is already running")

// CleanSnapshotsInput contains input for bulk deletion.
type CleanSnapshotsInput struct {
	Root       string
	Match      string
	FailedOnly bool
	DryRun     bool
}

// CleanSnapshotsOutput reports what was (or would be) removed.
type CleanSnapshotsOutput struct {
	Removed []snapshot.Entry
	DryRun  bool
}

// CleanSnapshotsUseCase deletes every snapshot under a root, or only the
// failed variants.
type CleanSnapshotsUseCase struct {
	catalog ports.SnapshotCatalog
	locker  ports.Locker
	writer  ports.ResultWriter
	logger  *slog.Logger
}

// NewCleanSnapshotsUseCase creates a clean use case. locker and writer may be nil.
func NewCleanSnapshotsUseCase(catalog ports.SnapshotCatalog, locker ports.Locker, writer ports.ResultWriter, logger *slog.Logger) *CleanSnapshotsUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanSnapshotsUseCase{
		catalog: catalog,
		locker:  locker,
		writer:  writer,
		logger:  logger,
	}
}

// Execute removes the matching snapshots. It stops at the first removal
// failure and reports what was removed so far.
func (uc *CleanSnapshotsUseCase) Execute(input CleanSnapshotsInput) (CleanSnapshotsOutput, error) {
	output := CleanSnapshotsOutput{DryRun: input.DryRun}

	if uc.locker != nil {
		ok, err := uc.locker.TryLock(CleanLockName)
		if err != nil {
			return output, fmt.Errorf("failed to acquire clean lock: %w", err)
		}
		if !ok {
			return output, ErrCleanInProgress
		}
		defer uc.locker.Unlock(CleanLockName)
	}

	listing, err := NewListSnapshotsUseCase(uc.catalog, nil).Execute(ListSnapshotsInput{
		Root:       input.Root,
		Match:      input.Match,
		FailedOnly: input.FailedOnly,
	})
	if err != nil {
		return output, err
	}

	for _, e := range listing.Entries {
		if !input.DryRun {
			if err := uc.catalog.Remove(e.Path); err != nil {
				return output, fmt.Errorf("failed to remove snapshot: %w", err)
			}
		}
		uc.logger.Debug("snapshot removed", "path", e.Path, "dry_run", input.DryRun)
		output.Removed = append(output.Removed, e)
	}

	if uc.writer != nil {
		verb := "Removed"
		if input.DryRun {
			verb = "Would remove"
		}
		_ = uc.writer.WriteProgress(fmt.Sprintf("%s %d snapshot file(s)", verb, len(output.Removed)))
	}

	return output, nil
}
