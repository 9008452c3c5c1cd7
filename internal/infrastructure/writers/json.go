package writers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// JSONWriter writes JSON-formatted output, one document per call.
type JSONWriter struct {
	out    io.Writer
	pretty bool
	now    func() time.Time
}

// JSONOption configures the JSON writer.
type JSONOption func(*JSONWriter)

// WithJSONOutput sets the output writer.
func WithJSONOutput(out io.Writer) JSONOption {
	return func(w *JSONWriter) {
		w.out = out
	}
}

// WithPrettyPrint enables pretty-printed JSON.
func WithPrettyPrint(enabled bool) JSONOption {
	return func(w *JSONWriter) {
		w.pretty = enabled
	}
}

// NewJSONWriter creates a new JSON writer.
func NewJSONWriter(opts ...JSONOption) *JSONWriter {
	w := &JSONWriter{
		out: os.Stdout,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONResult is the JSON form of a snapshot.Result.
type JSONResult struct {
	Type       string            `json:"type"`
	Kind       snapshot.Kind     `json:"kind"`
	Passed     bool              `json:"passed"`
	Message    string            `json:"message"`
	Identity   snapshot.Identity `json:"identity"`
	Group      string            `json:"group"`
	Modes      snapshot.Modes    `json:"modes"`
	Path       string            `json:"path,omitempty"`
	FailedPath string            `json:"failed_path,omitempty"`
}

// NewJSONResult converts a result.
func NewJSONResult(r snapshot.Result) JSONResult {
	return JSONResult{
		Type:       "result",
		Kind:       r.Kind,
		Passed:     r.Passed(),
		Message:    r.Message,
		Identity:   r.Identity,
		Group:      r.Identity.GroupKey(),
		Modes:      r.Modes,
		Path:       r.Path,
		FailedPath: r.FailedPath,
	}
}

// JSONListing is the JSON form of a snapshot listing.
type JSONListing struct {
	Type    string           `json:"type"`
	Count   int              `json:"count"`
	Failed  int              `json:"failed"`
	Entries []snapshot.Entry `json:"entries"`
}

// NewJSONListing converts a listing.
func NewJSONListing(entries []snapshot.Entry) JSONListing {
	if entries == nil {
		entries = []snapshot.Entry{}
	}
	return JSONListing{
		Type:    "snapshots",
		Count:   len(entries),
		Failed:  snapshot.CountFailed(entries),
		Entries: entries,
	}
}

// JSONProgress represents a progress message.
type JSONProgress struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// JSONError represents an error message.
type JSONError struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteResult writes a result document.
func (w *JSONWriter) WriteResult(r snapshot.Result) error {
	return w.writeJSON(NewJSONResult(r))
}

// WriteEntries writes a listing document.
func (w *JSONWriter) WriteEntries(entries []snapshot.Entry) error {
	return w.writeJSON(NewJSONListing(entries))
}

// WriteProgress writes a progress message.
func (w *JSONWriter) WriteProgress(message string) error {
	return w.writeJSON(JSONProgress{
		Type:      "progress",
		Message:   message,
		Timestamp: w.now().UTC(),
	})
}

// WriteError writes an error message.
func (w *JSONWriter) WriteError(err error) error {
	return w.writeJSON(JSONError{
		Type:      "error",
		Message:   err.Error(),
		Timestamp: w.now().UTC(),
	})
}

// Flush ensures all output is written.
func (w *JSONWriter) Flush() error {
	return nil
}

func (w *JSONWriter) writeJSON(v interface{}) error {
	var (
		data []byte
		err  error
	)
	if w.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := fmt.Fprintln(w.out, string(data)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

var _ ports.ResultWriter = (*JSONWriter)(nil)
