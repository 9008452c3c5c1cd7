// Package pathutil provides utilities for safe path handling.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

var (
	ErrEmptyPath       = errors.New("path cannot be empty")
	ErrNullBytes       = errors.New("path contains null bytes")
	ErrPathEscapesBase = errors.New("path escapes base directory")
)

// ValidatePath cleans a user-supplied path and rejects empty paths and
// paths containing null bytes. Symlinks are resolved when the path exists.
func ValidatePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if strings.ContainsRune(path, 0) {
		return "", ErrNullBytes
	}

	cleaned := filepath.Clean(path)
	if real, err := filepath.EvalSymlinks(cleaned); err == nil {
		return real, nil
	}
	return cleaned, nil
}

// WithinDir reports whether path lies inside dir after both are cleaned
// and made absolute. The comparison is lexical.
func WithinDir(path, dir string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}
	return true, nil
}

// EnsureWithinDir returns ErrPathEscapesBase when path is not inside dir.
func EnsureWithinDir(path, dir string) error {
	ok, err := WithinDir(path, dir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, path)
	}
	return nil
}

// SanitizeName turns an arbitrary label into a snapshot name that is safe
// to use as a file name. Letters, digits, '-', '_' and '.' are kept; every
// other rune becomes '_'. Blank labels become "unlabeled".
func SanitizeName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" || label == "." || label == ".." {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
