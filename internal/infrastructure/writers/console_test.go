package writers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResult(kind snapshot.Kind) snapshot.Result {
	r := snapshot.NewResult(kind, snapshot.NewIdentity("/repo/Tests/TestView.swift", "hello-world"))
	r.Path = "/repo/Tests/__snapshots__/TestView/hello-world.png"
	return r
}

func newTestConsole(v ports.Verbosity) (*ConsoleWriter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	w := NewConsoleWriter(WithOutput(&out), WithErrorOutput(&errOut), WithColor(false), WithVerbosity(v))
	return w, &out, &errOut
}

func TestConsoleWriter_WriteResult(t *testing.T) {
	tests := []struct {
		name     string
		kind     snapshot.Kind
		contains []string
	}{
		{"match", snapshot.KindMatch, []string{"[PASS]", "TestView/hello-world", "snapshot matches"}},
		{"mismatch", snapshot.KindMismatch, []string{"[FAIL]", "snapshots do not match", "Snapshot:"}},
		{"debug mismatch", snapshot.KindDebugMismatch, []string{"[FAIL]", "debug mode: snapshots do not match"}},
		{"recorded", snapshot.KindRecorded, []string{"[RECORDED]", "successfully recorded new snapshot"}},
		{"no baseline", snapshot.KindNoBaselineFound, []string{"[NO_BASELINE]", "new snapshot saved as baseline"}},
		{"unknown", snapshot.KindUnknown, []string{"[UNKNOWN]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out, _ := newTestConsole(ports.VerbosityNormal)

			require.NoError(t, w.WriteResult(testResult(tt.kind)))

			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestConsoleWriter_WriteResult_PassHidesPathAtNormal(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)

	require.NoError(t, w.WriteResult(testResult(snapshot.KindMatch)))

	assert.NotContains(t, out.String(), "Snapshot:")
}

func TestConsoleWriter_WriteResult_FailedVariant(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)
	r := testResult(snapshot.KindMismatch)
	r.FailedPath = "/repo/Tests/__snapshots__/TestView/hello-world-FAILED.png"

	require.NoError(t, w.WriteResult(r))

	assert.Contains(t, out.String(), "Failed variant: "+r.FailedPath)
}

func TestConsoleWriter_WriteResult_Verbose(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityVerbose)
	r := testResult(snapshot.KindMatch)
	r.Modes = snapshot.Modes{SaveFailedVariant: true}

	require.NoError(t, w.WriteResult(r))

	assert.Contains(t, out.String(), "Modes: save_failed")
	assert.Contains(t, out.String(), "Test file: /repo/Tests/TestView.swift")
	assert.Contains(t, out.String(), "Snapshot:")
}

func TestConsoleWriter_WriteResult_QuietSkipsPasses(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityQuiet)

	require.NoError(t, w.WriteResult(testResult(snapshot.KindMatch)))
	assert.Empty(t, out.String())

	require.NoError(t, w.WriteResult(testResult(snapshot.KindMismatch)))
	assert.Contains(t, out.String(), "[FAIL]")
}

func TestConsoleWriter_WriteEntries(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)
	entries := []snapshot.Entry{
		{Path: "/a/__snapshots__/view/button.png", Group: "view", Name: "button"},
		{Path: "/a/__snapshots__/view/button-FAILED.png", Group: "view", Name: "button", Failed: true},
	}

	require.NoError(t, w.WriteEntries(entries))

	assert.Contains(t, out.String(), "view/button")
	assert.Contains(t, out.String(), "! view/button")
	assert.Contains(t, out.String(), "Total: 2, Failed variants: 1")
}

func TestConsoleWriter_WriteEntries_Empty(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)

	require.NoError(t, w.WriteEntries(nil))

	assert.Contains(t, out.String(), "No snapshots found")
}

func TestConsoleWriter_WriteProgress(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)
	require.NoError(t, w.WriteProgress("Checking"))
	assert.Contains(t, out.String(), ">>> Checking")

	quiet, quietOut, _ := newTestConsole(ports.VerbosityQuiet)
	require.NoError(t, quiet.WriteProgress("Checking"))
	assert.Empty(t, quietOut.String())
}

func TestConsoleWriter_WriteError(t *testing.T) {
	w, _, errOut := newTestConsole(ports.VerbosityNormal)

	require.NoError(t, w.WriteError(errors.New("disk full")))

	assert.Equal(t, "ERROR: disk full\n", errOut.String())
}

func TestConsoleWriter_SetColor(t *testing.T) {
	w, out, _ := newTestConsole(ports.VerbosityNormal)
	w.SetColor(false)
	w.SetVerbosity(ports.VerbosityQuiet)

	require.NoError(t, w.WriteProgress("hidden"))
	assert.Empty(t, out.String())
	assert.NoError(t, w.Flush())
}
