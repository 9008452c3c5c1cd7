package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_GroupKey(t *testing.T) {
	tests := []struct {
		name     string
		testFile string
		expected string
	}{
		{"swift test file", "/repo/Tests/TestView.swift", "TestView"},
		{"go test file", "/repo/ui/button_test.go", "button_test"},
		{"multiple dots", "/repo/ui/card.dark.test.go", "card"},
		{"no extension", "/repo/ui/Makefile", "Makefile"},
		{"leading dot", "/repo/ui/.hidden.go", "hidden"},
		{"only dots", "/repo/ui/...", UnknownGroup},
		{"empty path", "", UnknownGroup},
		{"root", "/", UnknownGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := NewIdentity(tt.testFile, "hello-world")
			assert.Equal(t, tt.expected, id.GroupKey())
		})
	}
}

func TestIdentity_Dir(t *testing.T) {
	id := NewIdentity("/repo/Tests/TestView.swift", "hello-world")
	assert.Equal(t, "/repo/Tests", id.Dir())
}

func TestIdentity_Validate(t *testing.T) {
	tests := []struct {
		name        string
		snapName    string
		wantErr     bool
		errContains string
	}{
		{name: "simple", snapName: "hello-world"},
		{name: "dots allowed", snapName: "frame.01"},
		{name: "empty", snapName: "", wantErr: true, errContains: "cannot be empty"},
		{name: "blank", snapName: "   ", wantErr: true, errContains: "cannot be empty"},
		{name: "slash", snapName: "a/b", wantErr: true, errContains: "path separator"},
		{name: "backslash", snapName: `a\b`, wantErr: true, errContains: "path separator"},
		{name: "parent", snapName: "..", wantErr: true, errContains: "reserved"},
		{name: "null byte", snapName: "a\x00b", wantErr: true, errContains: "null bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewIdentity("/repo/view_test.go", tt.snapName).Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidIdentity)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIdentity_String(t *testing.T) {
	id := NewIdentity("/repo/Tests/TestView.swift", "hello-world")
	assert.Equal(t, "TestView/hello-world", id.String())
}
