package snapshot

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors for snapshot operations.
var (
	// ErrRenderFailure is returned when a component could not be rendered
	// into a bitmap. The resolver is never invoked in that case.
	ErrRenderFailure = errors.New("failed to create a snapshot image")

	// ErrStorage is matched by every StorageError.
	ErrStorage = errors.New("snapshot storage failure")

	// ErrComposition is matched by every CompositionError.
	ErrComposition = errors.New("snapshot composition failure")

	// ErrInvalidIdentity is returned when an identity cannot address a file.
	ErrInvalidIdentity = errors.New("invalid snapshot identity")

	// ErrCorruptBaseline is returned in strict mode when a stored baseline
	// exists but cannot be decoded.
	ErrCorruptBaseline = errors.New("stored snapshot cannot be decoded")
)

// StorageError describes a failed read, write or delete against the
// snapshot store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err with the failing operation and path.
func NewStorageError(op, path string, err error) *StorageError {
	return &StorageError{Op: op, Path: path, Err: err}
}

// CompositionError is returned when the saved and new bitmaps of a diff do
// not share dimensions.
type CompositionError struct {
	Saved image.Rectangle
	New   image.Rectangle
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("cannot compose snapshots of different sizes: saved %dx%d, new %dx%d",
		e.Saved.Dx(), e.Saved.Dy(), e.New.Dx(), e.New.Dy())
}

// Is reports whether target is ErrComposition.
func (e *CompositionError) Is(target error) bool {
	return target == ErrComposition
}
