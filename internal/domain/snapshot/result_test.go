package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "UNKNOWN"},
		{KindNoBaselineFound, "NO_BASELINE"},
		{KindMatch, "MATCH"},
		{KindMismatch, "MISMATCH"},
		{KindRecorded, "RECORDED"},
		{KindDeleted, "DELETED"},
		{KindDebugSaved, "DEBUG_SAVED"},
		{KindDebugMismatch, "DEBUG_MISMATCH"},
		{KindDebugSaveFailed, "DEBUG_SAVE_FAILED"},
		{Kind(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestKind_MessagesAreDistinct(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range AllKinds() {
		msg := k.Message()
		assert.NotEmpty(t, msg)
		if prev, ok := seen[msg]; ok {
			t.Errorf("kinds %s and %s share message %q", prev, k, msg)
		}
		seen[msg] = k
	}
}

func TestKind_Messages(t *testing.T) {
	assert.Equal(t, "debug mode: new snapshot saved and matches", KindDebugSaved.Message())
	assert.Equal(t, "snapshots successfully deleted", KindDeleted.Message())
	assert.Equal(t, "successfully recorded new snapshot", KindRecorded.Message())
	assert.Equal(t, "snapshots do not match", KindMismatch.Message())
	assert.Equal(t, "unknown snapshot result", Kind(42).Message())
}

func TestKind_Passed(t *testing.T) {
	for _, k := range AllKinds() {
		assert.Equal(t, k == KindMatch, k.Passed(), k.String())
	}
}

func TestKind_IsHardFailure(t *testing.T) {
	assert.True(t, KindDebugMismatch.IsHardFailure())
	assert.True(t, KindDebugSaveFailed.IsHardFailure())
	assert.False(t, KindMismatch.IsHardFailure())
	assert.False(t, KindNoBaselineFound.IsHardFailure())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" mismatch ")
	require.NoError(t, err)
	assert.Equal(t, KindMismatch, k)

	_, err = ParseKind("nope")
	assert.Error(t, err)
}

func TestKind_JSON(t *testing.T) {
	data, err := json.Marshal(KindRecorded)
	require.NoError(t, err)
	assert.Equal(t, `"RECORDED"`, string(data))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"DEBUG_SAVED"`), &k))
	assert.Equal(t, KindDebugSaved, k)

	assert.Error(t, json.Unmarshal([]byte(`"BOGUS"`), &k))
}

func TestNewResult(t *testing.T) {
	id := NewIdentity("/repo/Tests/TestView.swift", "hello-world")

	r := NewResult(KindMismatch, id)

	assert.Equal(t, KindMismatch, r.Kind)
	assert.Equal(t, id, r.Identity)
	assert.Equal(t, "snapshots do not match", r.Message)
	assert.False(t, r.Passed())
	assert.False(t, r.FailedVariantSaved())

	r.FailedPath = "/tmp/x-FAILED.png"
	assert.True(t, r.FailedVariantSaved())
}
