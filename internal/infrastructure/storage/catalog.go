package storage

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// List walks root and returns every snapshot file stored in a snapshot
// directory below it. Hidden directories other than root are skipped.
func (s *FileStore) List(root string) ([]snapshot.Entry, error) {
	var entries []snapshot.Entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		entry, ok := s.entryFor(path)
		if !ok {
			return nil
		}
		if info, err := d.Info(); err == nil {
			entry.Size = info.Size()
			entry.ModTime = info.ModTime()
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, snapshot.NewStorageError("list", root, err)
	}

	return entries, nil
}

// Remove deletes one snapshot file. Paths that are not snapshot files are
// refused so bulk cleanup cannot touch anything else.
func (s *FileStore) Remove(path string) error {
	if _, ok := s.entryFor(path); !ok {
		return snapshot.NewStorageError("delete", path, fmt.Errorf("not a snapshot file"))
	}
	return removeIfExists(path)
}

// entryFor parses a path of the form <dir>/<dirName>/<group>/<name>.png.
func (s *FileStore) entryFor(path string) (snapshot.Entry, bool) {
	base := filepath.Base(path)
	if filepath.Ext(base) != Extension || strings.HasPrefix(base, ".") {
		return snapshot.Entry{}, false
	}
	groupDir := filepath.Dir(path)
	if filepath.Base(filepath.Dir(groupDir)) != s.dirName {
		return snapshot.Entry{}, false
	}

	name := strings.TrimSuffix(base, Extension)
	failed := strings.HasSuffix(name, s.failedSuffix)
	if failed {
		name = strings.TrimSuffix(name, s.failedSuffix)
	}

	return snapshot.Entry{
		Path:   path,
		Group:  filepath.Base(groupDir),
		Name:   name,
		Failed: failed,
	}, true
}
