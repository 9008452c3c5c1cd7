package snapshot

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UnknownGroup is the group key used when a test file name has no stem.
const UnknownGroup = "unknown"

// Identity addresses one stored reference image: the source file of the
// test that owns it plus the snapshot name chosen by the test.
type Identity struct {
	TestFile string `json:"test_file"`
	Name     string `json:"name"`
}

// NewIdentity creates an identity for a snapshot name declared in testFile.
func NewIdentity(testFile, name string) Identity {
	return Identity{TestFile: testFile, Name: name}
}

// GroupKey returns the test file stem used as the snapshot subdirectory:
// the first non-empty dot-separated segment of the file's base name.
func (id Identity) GroupKey() string {
	base := filepath.Base(id.TestFile)
	if base == "." || base == string(filepath.Separator) {
		return UnknownGroup
	}
	for _, segment := range strings.Split(base, ".") {
		if segment != "" {
			return segment
		}
	}
	return UnknownGroup
}

// Dir returns the directory containing the test file.
func (id Identity) Dir() string {
	return filepath.Dir(id.TestFile)
}

// Validate checks that the name can be used as a file name.
func (id Identity) Validate() error {
	name := id.Name
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidIdentity)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name contains null bytes", ErrInvalidIdentity)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: name %q contains a path separator", ErrInvalidIdentity, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: name %q is reserved", ErrInvalidIdentity, name)
	}
	return nil
}

// String returns "group/name", the form used in reports.
func (id Identity) String() string {
	return id.GroupKey() + "/" + id.Name
}
