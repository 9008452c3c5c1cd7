package ports

import (
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// SnapshotStore defines path derivation and persistence for reference images.
type SnapshotStore interface {
	// PathFor returns the baseline file path for an identity. It performs no I/O.
	PathFor(id snapshot.Identity) string

	// FailedPathFor returns the failed-variant file path for an identity.
	FailedPathFor(id snapshot.Identity) string

	// Load reads the baseline. Returns nil without error when the file is
	// missing or cannot be decoded.
	Load(id snapshot.Identity) (*snapshot.Bitmap, error)

	// LoadFailed reads the failed variant, nil when there is none.
	LoadFailed(id snapshot.Identity) (*snapshot.Bitmap, error)

	// Inspect reports whether the baseline is missing, present or corrupt.
	Inspect(id snapshot.Identity) (snapshot.State, error)

	// Save writes the baseline, creating directories as needed.
	Save(id snapshot.Identity, b *snapshot.Bitmap) error

	// SaveFailed writes the failed variant, overwriting any previous one.
	SaveFailed(id snapshot.Identity, b *snapshot.Bitmap) error

	// Delete removes the baseline and the failed variant. Missing files
	// are not an error.
	Delete(id snapshot.Identity) error
}

// SnapshotCatalog enumerates and removes stored snapshot files in bulk.
type SnapshotCatalog interface {
	// List returns every snapshot file found under root.
	List(root string) ([]snapshot.Entry, error)

	// Remove deletes a single snapshot file.
	Remove(path string) error
}

// ArtifactWriter persists derived images such as diff composites.
type ArtifactWriter interface {
	// WriteArtifact writes data to path, creating parent directories.
	WriteArtifact(path string, data []byte) error
}
