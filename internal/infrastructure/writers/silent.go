package writers

import (
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// SilentWriter discards all output, useful for programmatic contexts like MCP.
type SilentWriter struct{}

// NewSilentWriter creates a new silent writer.
func NewSilentWriter() *SilentWriter {
	return &SilentWriter{}
}

// WriteResult discards the result.
func (w *SilentWriter) WriteResult(snapshot.Result) error {
	return nil
}

// WriteEntries discards the listing.
func (w *SilentWriter) WriteEntries([]snapshot.Entry) error {
	return nil
}

// WriteProgress discards progress messages.
func (w *SilentWriter) WriteProgress(string) error {
	return nil
}

// WriteError discards error messages.
func (w *SilentWriter) WriteError(error) error {
	return nil
}

// Flush is a no-op for SilentWriter.
func (w *SilentWriter) Flush() error {
	return nil
}
