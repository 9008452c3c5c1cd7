package usecases

import (
	"fmt"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/services"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// ErrNothingToCompare is returned when an identity lacks a baseline or a
// failed variant.
var ErrNothingToCompare = fmt.Errorf("%w: baseline and failed variant are both required", snapshot.ErrComposition)

// ComposeDiffInput selects the two images to compare. When Saved and New
// are both set they are used directly; otherwise the baseline and failed
// variant of Identity are loaded.
type ComposeDiffInput struct {
	Identity snapshot.Identity
	Saved    *snapshot.Bitmap
	New      *snapshot.Bitmap

	// Output is where the composite is written. Empty skips writing.
	Output string
}

// ComposeDiffOutput contains the composite.
type ComposeDiffOutput struct {
	Composite *snapshot.Bitmap
	Path      string
}

// ComposeDiffUseCase builds the triage image for a mismatch.
type ComposeDiffUseCase struct {
	store    ports.SnapshotStore
	artifact ports.ArtifactWriter
	composer *services.Composer
}

// NewComposeDiffUseCase creates a compose use case. store is only needed
// when composing by identity.
func NewComposeDiffUseCase(store ports.SnapshotStore, artifact ports.ArtifactWriter, composer *services.Composer) *ComposeDiffUseCase {
	if composer == nil {
		composer = services.NewComposer(services.DefaultGap, services.DefaultHeaderHeight)
	}
	return &ComposeDiffUseCase{store: store, artifact: artifact, composer: composer}
}

// Execute composes the diff image and optionally writes it.
func (uc *ComposeDiffUseCase) Execute(input ComposeDiffInput) (ComposeDiffOutput, error) {
	output := ComposeDiffOutput{}

	saved, next := input.Saved, input.New
	if saved == nil || next == nil {
		var err error
		saved, next, err = uc.loadPair(input.Identity)
		if err != nil {
			return output, err
		}
	}

	composite, err := uc.composer.Compose(saved, next)
	if err != nil {
		return output, err
	}
	output.Composite = composite

	if input.Output != "" {
		if uc.artifact == nil {
			return output, fmt.Errorf("no artifact writer configured for %s", input.Output)
		}
		if err := uc.artifact.WriteArtifact(input.Output, composite.Bytes()); err != nil {
			return output, fmt.Errorf("failed to write diff image: %w", err)
		}
		output.Path = input.Output
	}

	return output, nil
}

func (uc *ComposeDiffUseCase) loadPair(id snapshot.Identity) (*snapshot.Bitmap, *snapshot.Bitmap, error) {
	if uc.store == nil {
		return nil, nil, ErrNothingToCompare
	}
	saved, err := uc.store.Load(id)
	if err != nil {
		return nil, nil, err
	}
	next, err := uc.store.LoadFailed(id)
	if err != nil {
		return nil, nil, err
	}
	if saved == nil || next == nil {
		return nil, nil, fmt.Errorf("%w (%s)", ErrNothingToCompare, id)
	}
	return saved, next, nil
}
