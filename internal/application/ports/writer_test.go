package ports

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
)

// mockWriter is a test implementation of ResultWriter
type mockWriter struct {
	results    []snapshot.Kind
	listings   int
	progress   []string
	errors     []error
	shouldFail bool
}

func (m *mockWriter) WriteResult(r snapshot.Result) error {
	if m.shouldFail {
		return errors.New("write failed")
	}
	m.results = append(m.results, r.Kind)
	return nil
}

func (m *mockWriter) WriteEntries(entries []snapshot.Entry) error {
	if m.shouldFail {
		return errors.New("write failed")
	}
	m.listings++
	return nil
}

func (m *mockWriter) WriteProgress(message string) error {
	if m.shouldFail {
		return errors.New("write failed")
	}
	m.progress = append(m.progress, message)
	return nil
}

func (m *mockWriter) WriteError(err error) error {
	if m.shouldFail {
		return errors.New("write failed")
	}
	m.errors = append(m.errors, err)
	return nil
}

func (m *mockWriter) Flush() error {
	if m.shouldFail {
		return errors.New("flush failed")
	}
	return nil
}

func TestMultiWriter_FansOut(t *testing.T) {
	w1 := &mockWriter{}
	w2 := &mockWriter{}
	multi := NewMultiWriter(w1, w2)

	id := snapshot.NewIdentity("/repo/view_test.go", "button")
	assert.NoError(t, multi.WriteResult(snapshot.NewResult(snapshot.KindMatch, id)))
	assert.NoError(t, multi.WriteEntries(nil))
	assert.NoError(t, multi.WriteProgress("checking"))
	assert.NoError(t, multi.WriteError(errors.New("boom")))
	assert.NoError(t, multi.Flush())

	for _, w := range []*mockWriter{w1, w2} {
		assert.Equal(t, []snapshot.Kind{snapshot.KindMatch}, w.results)
		assert.Equal(t, 1, w.listings)
		assert.Equal(t, []string{"checking"}, w.progress)
		assert.Len(t, w.errors, 1)
	}
}

func TestMultiWriter_StopsOnFirstError(t *testing.T) {
	failing := &mockWriter{shouldFail: true}
	after := &mockWriter{}
	multi := NewMultiWriter(failing, after)

	id := snapshot.NewIdentity("/repo/view_test.go", "button")
	assert.Error(t, multi.WriteResult(snapshot.NewResult(snapshot.KindMismatch, id)))
	assert.Error(t, multi.WriteEntries(nil))
	assert.Error(t, multi.WriteProgress("x"))
	assert.Error(t, multi.WriteError(errors.New("x")))
	assert.Error(t, multi.Flush())

	assert.Empty(t, after.results)
	assert.Empty(t, after.progress)
}

func TestMultiWriter_Empty(t *testing.T) {
	multi := NewMultiWriter()

	assert.NoError(t, multi.WriteProgress("nothing"))
	assert.NoError(t, multi.Flush())
}
