// Package storage implements the file-backed snapshot store.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

const (
	// DefaultDirName is the directory created next to test files.
	DefaultDirName = "__snapshots__"

	// DefaultFailedSuffix is appended to the name of failed variants.
	DefaultFailedSuffix = "-FAILED"

	// Extension is the snapshot file extension.
	Extension = ".png"
)

// FileStore stores snapshots as PNG files next to the tests that own them:
// <test dir>/__snapshots__/<group key>/<name>.png
type FileStore struct {
	dirName      string
	failedSuffix string
	permDir      os.FileMode
	permFile     os.FileMode
	logger       *slog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithDirName sets the snapshot directory name.
func WithDirName(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.dirName = name
		}
	}
}

// WithFailedSuffix sets the suffix used for failed variants.
func WithFailedSuffix(suffix string) Option {
	return func(s *FileStore) {
		if suffix != "" {
			s.failedSuffix = suffix
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *FileStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFileStore creates a file store.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		dirName:      DefaultDirName,
		failedSuffix: DefaultFailedSuffix,
		permDir:      0o750,
		permFile:     0o644,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ports.SnapshotStore   = (*FileStore)(nil)
	_ ports.SnapshotCatalog = (*FileStore)(nil)
	_ ports.ArtifactWriter  = (*FileStore)(nil)
)

// DirName returns the snapshot directory name.
func (s *FileStore) DirName() string {
	return s.dirName
}

// FailedSuffix returns the failed-variant suffix.
func (s *FileStore) FailedSuffix() string {
	return s.failedSuffix
}

// GroupDir returns the directory holding every snapshot of the identity's test file.
func (s *FileStore) GroupDir(id snapshot.Identity) string {
	return filepath.Join(id.Dir(), s.dirName, id.GroupKey())
}

// PathFor returns the baseline path for an identity.
func (s *FileStore) PathFor(id snapshot.Identity) string {
	return filepath.Join(s.GroupDir(id), id.Name+Extension)
}

// FailedPathFor returns the failed-variant path for an identity.
func (s *FileStore) FailedPathFor(id snapshot.Identity) string {
	return filepath.Join(s.GroupDir(id), id.Name+s.failedSuffix+Extension)
}

// Load reads the baseline for an identity. Missing and undecodable files
// both yield a nil bitmap; use Inspect to tell them apart.
func (s *FileStore) Load(id snapshot.Identity) (*snapshot.Bitmap, error) {
	b, _, err := s.load(id)
	return b, err
}

// Inspect reports the state of the stored baseline.
func (s *FileStore) Inspect(id snapshot.Identity) (snapshot.State, error) {
	_, state, err := s.load(id)
	return state, err
}

// LoadFailed reads the failed variant for an identity, if any.
func (s *FileStore) LoadFailed(id snapshot.Identity) (*snapshot.Bitmap, error) {
	if err := s.validate(id); err != nil {
		return nil, err
	}
	b, _, err := s.readBitmap(s.FailedPathFor(id))
	return b, err
}

// validate rejects names that end in the failed suffix: their baseline
// would share a file with another name's failed variant.
func (s *FileStore) validate(id snapshot.Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if s.failedSuffix != "" && strings.HasSuffix(id.Name, s.failedSuffix) {
		return fmt.Errorf("%w: name %q ends with the reserved suffix %q",
			snapshot.ErrInvalidIdentity, id.Name, s.failedSuffix)
	}
	return nil
}

func (s *FileStore) load(id snapshot.Identity) (*snapshot.Bitmap, snapshot.State, error) {
	if err := s.validate(id); err != nil {
		return nil, snapshot.StateMissing, err
	}
	return s.readBitmap(s.PathFor(id))
}

func (s *FileStore) readBitmap(path string) (*snapshot.Bitmap, snapshot.State, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path is derived from a validated identity
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, snapshot.StateMissing, nil
		}
		return nil, snapshot.StateMissing, snapshot.NewStorageError("read", path, err)
	}

	b, err := snapshot.DecodeBitmap(data)
	if err != nil {
		s.logger.Warn("stored snapshot is not a decodable png", "path", path, "error", err)
		return nil, snapshot.StateCorrupt, nil
	}
	return b, snapshot.StatePresent, nil
}

// Save writes the baseline for an identity.
func (s *FileStore) Save(id snapshot.Identity, b *snapshot.Bitmap) error {
	if err := s.validate(id); err != nil {
		return err
	}
	return s.write(s.PathFor(id), b)
}

// SaveFailed writes the failed variant for an identity.
func (s *FileStore) SaveFailed(id snapshot.Identity, b *snapshot.Bitmap) error {
	if err := s.validate(id); err != nil {
		return err
	}
	return s.write(s.FailedPathFor(id), b)
}

func (s *FileStore) write(path string, b *snapshot.Bitmap) error {
	if b == nil {
		return snapshot.NewStorageError("write", path, snapshot.ErrRenderFailure)
	}
	if err := os.MkdirAll(filepath.Dir(path), s.permDir); err != nil {
		return snapshot.NewStorageError("create directory", filepath.Dir(path), err)
	}
	if err := writeAtomic(path, b.Bytes(), s.permFile); err != nil {
		return snapshot.NewStorageError("write", path, err)
	}
	s.logger.Debug("snapshot written", "path", path, "bytes", len(b.Bytes()))
	return nil
}

// Delete removes the baseline and the failed variant for an identity.
func (s *FileStore) Delete(id snapshot.Identity) error {
	if err := s.validate(id); err != nil {
		return err
	}
	for _, path := range []string{s.PathFor(id), s.FailedPathFor(id)} {
		if err := removeIfExists(path); err != nil {
			return err
		}
	}
	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return snapshot.NewStorageError("delete", path, err)
	}
	return nil
}

// WriteArtifact atomically writes a derived file such as a diff composite.
func (s *FileStore) WriteArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), s.permDir); err != nil {
		return snapshot.NewStorageError("create directory", filepath.Dir(path), err)
	}
	if err := writeAtomic(path, data, s.permFile); err != nil {
		return snapshot.NewStorageError("write", path, err)
	}
	return nil
}
