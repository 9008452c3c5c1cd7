package ports

import (
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// ResultWriter defines the interface for reporting snapshot results.
type ResultWriter interface {
	// WriteResult writes the outcome of one resolution.
	WriteResult(r snapshot.Result) error

	// WriteEntries writes a listing of stored snapshots.
	WriteEntries(entries []snapshot.Entry) error

	// WriteProgress writes progress updates.
	WriteProgress(message string) error

	// WriteError writes error messages.
	WriteError(err error) error

	// Flush ensures all output is written.
	Flush() error
}

// MultiWriter writes to multiple destinations.
type MultiWriter struct {
	writers []ResultWriter
}

// NewMultiWriter creates a writer that writes to all provided writers.
func NewMultiWriter(writers ...ResultWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteResult writes to all writers.
func (m *MultiWriter) WriteResult(r snapshot.Result) error {
	for _, w := range m.writers {
		if err := w.WriteResult(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntries writes to all writers.
func (m *MultiWriter) WriteEntries(entries []snapshot.Entry) error {
	for _, w := range m.writers {
		if err := w.WriteEntries(entries); err != nil {
			return err
		}
	}
	return nil
}

// WriteProgress writes to all writers.
func (m *MultiWriter) WriteProgress(message string) error {
	for _, w := range m.writers {
		if err := w.WriteProgress(message); err != nil {
			return err
		}
	}
	return nil
}

// WriteError writes to all writers.
func (m *MultiWriter) WriteError(err error) error {
	for _, w := range m.writers {
		if writeErr := w.WriteError(err); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

// Flush flushes all writers.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
