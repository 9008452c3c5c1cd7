package mocks

import (
	"sync"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// MockResultWriter records everything written to it. It is safe for
// concurrent use, so watch callbacks can write while a test reads.
type MockResultWriter struct {
	mu       sync.Mutex
	results  []snapshot.Result
	entries  [][]snapshot.Entry
	progress []string
	errs     []error
}

// NewMockResultWriter creates an empty recording writer.
func NewMockResultWriter() *MockResultWriter {
	return &MockResultWriter{}
}

func (m *MockResultWriter) WriteResult(r snapshot.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *MockResultWriter) WriteEntries(entries []snapshot.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entries)
	return nil
}

func (m *MockResultWriter) WriteProgress(message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, message)
	return nil
}

func (m *MockResultWriter) WriteError(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = append(m.errs, err)
	return nil
}

func (m *MockResultWriter) Flush() error { return nil }

// Results returns a copy of the written results.
func (m *MockResultWriter) Results() []snapshot.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]snapshot.Result(nil), m.results...)
}

// Progress returns a copy of the progress messages.
func (m *MockResultWriter) Progress() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.progress...)
}

// Errors returns a copy of the reported errors.
func (m *MockResultWriter) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.errs...)
}

var _ ports.ResultWriter = (*MockResultWriter)(nil)
