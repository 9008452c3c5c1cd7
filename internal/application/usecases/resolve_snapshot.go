package usecases

import (
	"log/slog"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// ResolveSnapshotUseCase decides what happens to one freshly rendered
// snapshot given the active modes and the stored baseline.
type ResolveSnapshotUseCase struct {
	store        ports.SnapshotStore
	logger       *slog.Logger
	strictDecode bool
}

// ResolveOption configures a ResolveSnapshotUseCase.
type ResolveOption func(*ResolveSnapshotUseCase)

// WithResolveLogger sets the logger used for decision tracing.
func WithResolveLogger(logger *slog.Logger) ResolveOption {
	return func(uc *ResolveSnapshotUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

// WithStrictDecode makes an undecodable baseline an error instead of
// treating it as missing.
func WithStrictDecode(strict bool) ResolveOption {
	return func(uc *ResolveSnapshotUseCase) {
		uc.strictDecode = strict
	}
}

// NewResolveSnapshotUseCase creates a resolver backed by store.
func NewResolveSnapshotUseCase(store ports.SnapshotStore, opts ...ResolveOption) *ResolveSnapshotUseCase {
	uc := &ResolveSnapshotUseCase{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Resolve applies the first matching mode in the order
// debug > delete > record > default comparison.
//
// A nil bitmap returns snapshot.ErrRenderFailure without touching storage.
// Storage failures abort the resolution and are returned as errors; they are
// never reported as a softer result kind.
func (uc *ResolveSnapshotUseCase) Resolve(id snapshot.Identity, modes snapshot.Modes, b *snapshot.Bitmap) (snapshot.Result, error) {
	if b == nil {
		return snapshot.Result{}, snapshot.ErrRenderFailure
	}
	if err := id.Validate(); err != nil {
		return snapshot.Result{}, err
	}

	var (
		result snapshot.Result
		err    error
	)
	switch modes.Active() {
	case snapshot.ModeDebug:
		result, err = uc.debug(id, modes, b)
	case snapshot.ModeDelete:
		result, err = uc.deleteExisting(id)
	case snapshot.ModeRecord:
		result, err = uc.record(id, b)
	default:
		result, err = uc.compare(id, modes, b)
	}
	if err != nil {
		return snapshot.Result{}, err
	}

	result.Modes = modes
	result.Actual = b
	result.Path = uc.store.PathFor(id)

	uc.logger.Debug("snapshot resolved",
		"snapshot", id.String(),
		"mode", modes.Active(),
		"kind", result.Kind.String(),
	)
	return result, nil
}

func (uc *ResolveSnapshotUseCase) debug(id snapshot.Identity, modes snapshot.Modes, b *snapshot.Bitmap) (snapshot.Result, error) {
	if err := uc.store.Delete(id); err != nil {
		return snapshot.Result{}, err
	}
	if err := uc.store.Save(id, b); err != nil {
		return snapshot.Result{}, err
	}

	reloaded, err := uc.store.Load(id)
	if err != nil {
		return snapshot.Result{}, err
	}
	if reloaded == nil {
		return snapshot.NewResult(snapshot.KindDebugSaveFailed, id), nil
	}
	if !reloaded.Equal(b) {
		result := snapshot.NewResult(snapshot.KindDebugMismatch, id)
		result.Baseline = reloaded
		if modes.SaveFailedVariant {
			if err := uc.saveFailed(id, b, &result); err != nil {
				return snapshot.Result{}, err
			}
		}
		return result, nil
	}

	result := snapshot.NewResult(snapshot.KindDebugSaved, id)
	result.Baseline = reloaded
	return result, nil
}

func (uc *ResolveSnapshotUseCase) deleteExisting(id snapshot.Identity) (snapshot.Result, error) {
	if err := uc.store.Delete(id); err != nil {
		return snapshot.Result{}, err
	}
	return snapshot.NewResult(snapshot.KindDeleted, id), nil
}

func (uc *ResolveSnapshotUseCase) record(id snapshot.Identity, b *snapshot.Bitmap) (snapshot.Result, error) {
	if err := uc.store.Delete(id); err != nil {
		return snapshot.Result{}, err
	}
	if err := uc.store.Save(id, b); err != nil {
		return snapshot.Result{}, err
	}
	return snapshot.NewResult(snapshot.KindRecorded, id), nil
}

func (uc *ResolveSnapshotUseCase) compare(id snapshot.Identity, modes snapshot.Modes, b *snapshot.Bitmap) (snapshot.Result, error) {
	if uc.strictDecode {
		state, err := uc.store.Inspect(id)
		if err != nil {
			return snapshot.Result{}, err
		}
		if state == snapshot.StateCorrupt {
			return snapshot.Result{}, snapshot.NewStorageError("read", uc.store.PathFor(id), snapshot.ErrCorruptBaseline)
		}
	}

	baseline, err := uc.store.Load(id)
	if err != nil {
		return snapshot.Result{}, err
	}

	if baseline == nil {
		if err := uc.store.Save(id, b); err != nil {
			return snapshot.Result{}, err
		}
		return snapshot.NewResult(snapshot.KindNoBaselineFound, id), nil
	}

	if baseline.Equal(b) {
		// Re-save so the stored file carries the current encoder's output.
		if err := uc.store.Save(id, b); err != nil {
			return snapshot.Result{}, err
		}
		result := snapshot.NewResult(snapshot.KindMatch, id)
		result.Baseline = baseline
		return result, nil
	}

	result := snapshot.NewResult(snapshot.KindMismatch, id)
	result.Baseline = baseline
	if modes.SaveFailedVariant {
		if err := uc.saveFailed(id, b, &result); err != nil {
			return snapshot.Result{}, err
		}
	}
	return result, nil
}

func (uc *ResolveSnapshotUseCase) saveFailed(id snapshot.Identity, b *snapshot.Bitmap, result *snapshot.Result) error {
	if err := uc.store.SaveFailed(id, b); err != nil {
		return err
	}
	result.FailedPath = uc.store.FailedPathFor(id)
	uc.logger.Debug("failed variant saved", "path", result.FailedPath)
	return nil
}
