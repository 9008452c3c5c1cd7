// Package mocks provides mock implementations for testing.
package mocks

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// failedSuffix matches the FileStore default.
const failedSuffix = "-FAILED"

// MockStore is an in-memory ports.SnapshotStore. Error fields, when set,
// are returned by the matching operation instead of touching memory.
type MockStore struct {
	mu       sync.Mutex
	baseline map[string]*snapshot.Bitmap
	failed   map[string]*snapshot.Bitmap
	corrupt  map[string]bool

	LoadErr       error
	SaveErr       error
	SaveFailedErr error
	DeleteErr     error

	// DropSaves makes Save succeed without storing anything.
	DropSaves bool
	// SaveTransform, when set, replaces the bitmap stored by Save.
	SaveTransform func(*snapshot.Bitmap) *snapshot.Bitmap

	Calls []string
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		baseline: make(map[string]*snapshot.Bitmap),
		failed:   make(map[string]*snapshot.Bitmap),
		corrupt:  make(map[string]bool),
	}
}

var (
	_ ports.SnapshotStore   = (*MockStore)(nil)
	_ ports.SnapshotCatalog = (*MockStore)(nil)
)

// key is the baseline path, so identities only collide when FileStore
// would put them in the same file.
func (m *MockStore) key(id snapshot.Identity) string {
	return m.PathFor(id)
}

func (m *MockStore) record(call string) {
	m.Calls = append(m.Calls, call)
}

// PathFor returns a path under the test file directory.
func (m *MockStore) PathFor(id snapshot.Identity) string {
	return filepath.Join(id.Dir(), "__snapshots__", id.GroupKey(), id.Name+".png")
}

// FailedPathFor returns the failed-variant path.
func (m *MockStore) FailedPathFor(id snapshot.Identity) string {
	return filepath.Join(id.Dir(), "__snapshots__", id.GroupKey(), id.Name+failedSuffix+".png")
}

// Load returns the stored baseline.
func (m *MockStore) Load(id snapshot.Identity) (*snapshot.Bitmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("load")
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.baseline[m.key(id)], nil
}

// Inspect reports the state of the baseline.
func (m *MockStore) Inspect(id snapshot.Identity) (snapshot.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("inspect")
	if m.LoadErr != nil {
		return snapshot.StateMissing, m.LoadErr
	}
	switch {
	case m.corrupt[m.key(id)]:
		return snapshot.StateCorrupt, nil
	case m.baseline[m.key(id)] != nil:
		return snapshot.StatePresent, nil
	default:
		return snapshot.StateMissing, nil
	}
}

// Save stores the baseline.
func (m *MockStore) Save(id snapshot.Identity, b *snapshot.Bitmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("save")
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if err := validate(id); err != nil {
		return err
	}
	if m.DropSaves {
		return nil
	}
	if m.SaveTransform != nil {
		b = m.SaveTransform(b)
	}
	m.baseline[m.key(id)] = b
	delete(m.corrupt, m.key(id))
	return nil
}

// SaveFailed stores the failed variant.
func (m *MockStore) SaveFailed(id snapshot.Identity, b *snapshot.Bitmap) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("save_failed")
	if m.SaveFailedErr != nil {
		return m.SaveFailedErr
	}
	if err := validate(id); err != nil {
		return err
	}
	m.failed[m.key(id)] = b
	return nil
}

// Delete removes the baseline and failed variant.
func (m *MockStore) Delete(id snapshot.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("delete")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.baseline, m.key(id))
	delete(m.failed, m.key(id))
	delete(m.corrupt, m.key(id))
	return nil
}

// Put seeds a baseline without recording a call.
func (m *MockStore) Put(id snapshot.Identity, b *snapshot.Bitmap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseline[m.key(id)] = b
}

// PutFailed seeds a failed variant without recording a call.
func (m *MockStore) PutFailed(id snapshot.Identity, b *snapshot.Bitmap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[m.key(id)] = b
}

// MarkCorrupt makes Inspect report the baseline as corrupt and Load return nil.
func (m *MockStore) MarkCorrupt(id snapshot.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.baseline, m.key(id))
	m.corrupt[m.key(id)] = true
}

// Stored returns the stored baseline without recording a call.
func (m *MockStore) Stored(id snapshot.Identity) *snapshot.Bitmap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseline[m.key(id)]
}

// Failed returns the stored failed variant.
func (m *MockStore) Failed(id snapshot.Identity) *snapshot.Bitmap {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[m.key(id)]
}

// LoadFailed returns the stored failed variant.
func (m *MockStore) LoadFailed(id snapshot.Identity) (*snapshot.Bitmap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("load_failed")
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.failed[m.key(id)], nil
}

// List returns an entry for every stored bitmap whose path is under root,
// laid out the way FileStore stores them.
func (m *MockStore) List(root string) ([]snapshot.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("list")
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	var entries []snapshot.Entry
	add := func(baselinePath string, failed bool) {
		path := baselinePath
		if failed {
			path = strings.TrimSuffix(baselinePath, ".png") + failedSuffix + ".png"
		}
		if !under(root, path) {
			return
		}
		entries = append(entries, snapshot.Entry{
			Path:   path,
			Group:  filepath.Base(filepath.Dir(baselinePath)),
			Name:   strings.TrimSuffix(filepath.Base(baselinePath), ".png"),
			Failed: failed,
		})
	}
	for k := range m.baseline {
		add(k, false)
	}
	for k := range m.failed {
		add(k, true)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Remove deletes the bitmap that List reported at path.
func (m *MockStore) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("remove")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	if trimmed, ok := strings.CutSuffix(path, failedSuffix+".png"); ok {
		delete(m.failed, trimmed+".png")
		return nil
	}
	delete(m.baseline, path)
	delete(m.corrupt, path)
	return nil
}

// validate matches FileStore with its default failed suffix.
func validate(id snapshot.Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if strings.HasSuffix(id.Name, failedSuffix) {
		return fmt.Errorf("%w: name %q ends with the reserved suffix", snapshot.ErrInvalidIdentity, id.Name)
	}
	return nil
}

func under(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}


// MockArtifactWriter records artifacts in memory.
type MockArtifactWriter struct {
	Files map[string][]byte
	Err   error
}

// NewMockArtifactWriter creates an empty artifact writer.
func NewMockArtifactWriter() *MockArtifactWriter {
	return &MockArtifactWriter{Files: make(map[string][]byte)}
}

// WriteArtifact stores data under path.
func (m *MockArtifactWriter) WriteArtifact(path string, data []byte) error {
	if m.Err != nil {
		return m.Err
	}
	m.Files[path] = data
	return nil
}
