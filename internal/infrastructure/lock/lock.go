// Package lock provides cross-process locks backed by lock files.
package lock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
)

const suffix = ".snapguard.lock"

// FileLocker hands out named flock(2) locks stored in one directory.
type FileLocker struct {
	dir string

	mu    sync.Mutex
	locks map[string]*flock.Flock
}

var _ ports.Locker = (*FileLocker)(nil)

// New creates a locker that keeps its lock files in dir.
func New(dir string) *FileLocker {
	return &FileLocker{
		dir:   dir,
		locks: make(map[string]*flock.Flock),
	}
}

// TryLock acquires name without blocking. Re-locking a name this locker
// already holds succeeds.
func (l *FileLocker) TryLock(name string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)
	if _, ok := l.locks[filename]; ok {
		return true, nil
	}

	if err := os.MkdirAll(l.dir, 0o750); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	locker := flock.New(filename)
	ok, err := locker.TryLock()
	if ok {
		l.locks[filename] = locker
	} else {
		_ = locker.Close()
	}
	return ok, err
}

// Unlock releases name. Unknown names are ignored.
func (l *FileLocker) Unlock(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filename := l.filename(name)
	locker, ok := l.locks[filename]
	if !ok {
		return
	}
	delete(l.locks, filename)
	_ = locker.Close()
}

// UnlockAll releases every held lock.
func (l *FileLocker) UnlockAll() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, locker := range l.locks {
		delete(l.locks, key)
		_ = locker.Close()
	}
}

func (l *FileLocker) filename(name string) string {
	return filepath.Join(l.dir, name+suffix)
}
