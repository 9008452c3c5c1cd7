package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// DiffSuffix is appended to the snapshot name of a diff composite.
const DiffSuffix = "-DIFF"

// CheckSnapshotInput describes one image to resolve. Exactly one source is
// used, in order: Bitmap, Data, Render.
type CheckSnapshotInput struct {
	Identity snapshot.Identity
	Modes    snapshot.Modes

	Bitmap *snapshot.Bitmap
	Data   []byte
	Render *ports.RenderRequest
}

// CheckSnapshotOutput contains the resolution result.
type CheckSnapshotOutput struct {
	Result snapshot.Result

	// DiffPath is set when a diff composite was written.
	DiffPath string
}

// CheckSnapshotUseCase obtains an image, resolves it against the store and
// writes a diff composite for mismatches.
type CheckSnapshotUseCase struct {
	resolver *ResolveSnapshotUseCase
	renderer ports.Renderer
	diff     *ComposeDiffUseCase
	diffDir  string
	writer   ports.ResultWriter
	logger   *slog.Logger
}

// CheckOption configures a CheckSnapshotUseCase.
type CheckOption func(*CheckSnapshotUseCase)

// WithRenderer enables inputs that carry a render request.
func WithRenderer(r ports.Renderer) CheckOption {
	return func(uc *CheckSnapshotUseCase) {
		uc.renderer = r
	}
}

// WithDiffArtifacts writes diff composites below dir using diff.
func WithDiffArtifacts(diff *ComposeDiffUseCase, dir string) CheckOption {
	return func(uc *CheckSnapshotUseCase) {
		uc.diff = diff
		uc.diffDir = dir
	}
}

// WithCheckWriter reports every result to w.
func WithCheckWriter(w ports.ResultWriter) CheckOption {
	return func(uc *CheckSnapshotUseCase) {
		uc.writer = w
	}
}

// WithCheckLogger sets the logger.
func WithCheckLogger(logger *slog.Logger) CheckOption {
	return func(uc *CheckSnapshotUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

// NewCheckSnapshotUseCase creates a check use case around resolver.
func NewCheckSnapshotUseCase(resolver *ResolveSnapshotUseCase, opts ...CheckOption) *CheckSnapshotUseCase {
	uc := &CheckSnapshotUseCase{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// DiffPathFor returns where the diff composite of id is written below dir.
func DiffPathFor(dir string, id snapshot.Identity) string {
	return filepath.Join(dir, id.GroupKey(), id.Name+DiffSuffix+".png")
}

// Execute resolves the input image. Image acquisition failures wrap
// snapshot.ErrRenderFailure. A failed diff composite is logged, never
// returned, so it cannot mask the result.
func (uc *CheckSnapshotUseCase) Execute(ctx context.Context, input CheckSnapshotInput) (CheckSnapshotOutput, error) {
	output := CheckSnapshotOutput{}

	bitmap, err := uc.acquire(ctx, input)
	if err != nil {
		return output, err
	}

	result, err := uc.resolver.Resolve(input.Identity, input.Modes, bitmap)
	if err != nil {
		return output, err
	}
	output.Result = result

	if uc.diff != nil && uc.diffDir != "" && needsDiff(result) {
		path := DiffPathFor(uc.diffDir, input.Identity)
		_, err := uc.diff.Execute(ComposeDiffInput{
			Identity: input.Identity,
			Saved:    result.Baseline,
			New:      result.Actual,
			Output:   path,
		})
		if err != nil {
			uc.logger.Warn("diff composite not written", "snapshot", input.Identity.String(), "error", err)
		} else {
			output.DiffPath = path
		}
	}

	if uc.writer != nil {
		if err := uc.writer.WriteResult(result); err != nil {
			return output, fmt.Errorf("failed to write result: %w", err)
		}
	}

	return output, nil
}

func (uc *CheckSnapshotUseCase) acquire(ctx context.Context, input CheckSnapshotInput) (*snapshot.Bitmap, error) {
	switch {
	case input.Bitmap != nil:
		return input.Bitmap, nil
	case len(input.Data) > 0:
		b, err := snapshot.DecodeBitmap(input.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", snapshot.ErrRenderFailure, err)
		}
		return b, nil
	case input.Render != nil:
		if uc.renderer == nil {
			return nil, fmt.Errorf("%w: no renderer configured", snapshot.ErrRenderFailure)
		}
		b, err := uc.renderer.Render(ctx, *input.Render)
		if err != nil {
			if errors.Is(err, snapshot.ErrRenderFailure) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", snapshot.ErrRenderFailure, err)
		}
		if b == nil {
			return nil, snapshot.ErrRenderFailure
		}
		return b, nil
	default:
		return nil, snapshot.ErrRenderFailure
	}
}

// needsDiff reports whether result is a mismatch carrying both images.
// Passing and state-change results never get a composite.
func needsDiff(r snapshot.Result) bool {
	if r.Kind != snapshot.KindMismatch && r.Kind != snapshot.KindDebugMismatch {
		return false
	}
	return r.Baseline != nil && r.Actual != nil
}
