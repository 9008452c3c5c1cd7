package lock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLocker_TryLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	l := New(dir)

	ok, err := l.TryLock("clean")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.FileExists(t, filepath.Join(dir, "clean"+suffix))

	// Re-entrant for the same locker.
	ok, err = l.TryLock("clean")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileLocker_ContendedLock(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	ok, err := first.TryLock("clean")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = second.TryLock("clean")
	require.NoError(t, err)
	assert.False(t, ok)

	first.Unlock("clean")

	ok, err = second.TryLock("clean")
	require.NoError(t, err)
	assert.True(t, ok)
	second.UnlockAll()
}

func TestFileLocker_IndependentNames(t *testing.T) {
	dir := t.TempDir()
	first := New(dir)
	second := New(dir)

	ok, _ := first.TryLock("clean")
	require.True(t, ok)
	ok, _ = second.TryLock("watch")
	assert.True(t, ok)

	first.UnlockAll()
	second.UnlockAll()
}

func TestFileLocker_UnlockUnknown(t *testing.T) {
	l := New(t.TempDir())

	assert.NotPanics(t, func() { l.Unlock("nothing") })
}

func TestFileLocker_DirectoryError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	l := New(filepath.Join(file, "locks"))

	ok, err := l.TryLock("clean")

	assert.Error(t, err)
	assert.False(t, ok)
}
