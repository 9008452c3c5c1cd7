package writers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWriter_WriteResult(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(WithJSONOutput(&buf))
	r := testResult(snapshot.KindMismatch)
	r.FailedPath = "/x-FAILED.png"
	r.Modes = snapshot.Modes{SaveFailedVariant: true}

	require.NoError(t, w.WriteResult(r))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "result", got["type"])
	assert.Equal(t, "MISMATCH", got["kind"])
	assert.Equal(t, false, got["passed"])
	assert.Equal(t, "snapshots do not match", got["message"])
	assert.Equal(t, "TestView", got["group"])
	assert.Equal(t, "/x-FAILED.png", got["failed_path"])
	identity := got["identity"].(map[string]interface{})
	assert.Equal(t, "hello-world", identity["name"])
	modes := got["modes"].(map[string]interface{})
	assert.Equal(t, true, modes["save_failed"])
}

func TestJSONWriter_WriteResult_OmitsEmptyFailedPath(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(WithJSONOutput(&buf))

	require.NoError(t, w.WriteResult(testResult(snapshot.KindMatch)))

	assert.NotContains(t, buf.String(), "failed_path")
	assert.Contains(t, buf.String(), `"passed":true`)
}

func TestJSONWriter_WriteEntries(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(WithJSONOutput(&buf), WithPrettyPrint(true))

	require.NoError(t, w.WriteEntries([]snapshot.Entry{
		{Path: "/a.png", Group: "g", Name: "a"},
		{Path: "/a-FAILED.png", Group: "g", Name: "a", Failed: true},
	}))

	var got JSONListing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "snapshots", got.Type)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 1, got.Failed)
	assert.Contains(t, buf.String(), "\n  ")
}

func TestJSONWriter_WriteEntries_NilIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(WithJSONOutput(&buf))

	require.NoError(t, w.WriteEntries(nil))

	assert.Contains(t, buf.String(), `"entries":[]`)
}

func TestJSONWriter_ProgressAndError(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONWriter(WithJSONOutput(&buf))
	w.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, w.WriteProgress("working"))
	require.NoError(t, w.WriteError(errors.New("boom")))
	require.NoError(t, w.Flush())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"type":"progress","message":"working","timestamp":"2024-01-02T03:04:05Z"}`, string(lines[0]))
	assert.JSONEq(t, `{"type":"error","message":"boom","timestamp":"2024-01-02T03:04:05Z"}`, string(lines[1]))
}
