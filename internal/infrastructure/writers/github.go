package writers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// GitHubActionsWriter writes results as GitHub Actions workflow commands.
// Failing snapshots become annotations on the owning test file.
// Format: ::error file={file},title={title}::{message}
type GitHubActionsWriter struct {
	out     io.Writer
	results []snapshot.Result
}

// GitHubActionsOption configures the GitHub Actions writer.
type GitHubActionsOption func(*GitHubActionsWriter)

// WithGitHubOutput sets the output writer.
func WithGitHubOutput(out io.Writer) GitHubActionsOption {
	return func(w *GitHubActionsWriter) {
		w.out = out
	}
}

// NewGitHubActionsWriter creates a new GitHub Actions writer.
func NewGitHubActionsWriter(opts ...GitHubActionsOption) *GitHubActionsWriter {
	w := &GitHubActionsWriter{
		out: os.Stdout,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteResult annotates a failing result. Passing results are only counted.
func (w *GitHubActionsWriter) WriteResult(r snapshot.Result) error {
	w.results = append(w.results, r)
	if r.Passed() {
		return nil
	}

	level := w.kindToLevel(r.Kind)
	message := fmt.Sprintf("%s: %s", r.Identity.String(), r.Message)
	if r.FailedVariantSaved() {
		message += fmt.Sprintf(" (failed variant: %s)", r.FailedPath)
	}

	var annotation string
	if r.Identity.TestFile != "" {
		annotation = fmt.Sprintf("::%s file=%s,title=%s::%s\n",
			level, escapeProperty(r.Identity.TestFile), escapeProperty("snapshot "+r.Kind.String()), escapeMessage(message))
	} else {
		annotation = fmt.Sprintf("::%s::%s\n", level, escapeMessage(message))
	}

	_, err := fmt.Fprint(w.out, annotation)
	return err
}

// WriteEntries writes the listing inside a collapsible group.
func (w *GitHubActionsWriter) WriteEntries(entries []snapshot.Entry) error {
	fmt.Fprintln(w.out, "::group::Snapshots")
	for _, e := range entries {
		suffix := ""
		if e.Failed {
			suffix = " (failed variant)"
		}
		fmt.Fprintf(w.out, "%s/%s%s\n", e.Group, e.Name, suffix)
	}
	fmt.Fprintln(w.out, "::endgroup::")
	return nil
}

// WriteProgress writes progress messages.
func (w *GitHubActionsWriter) WriteProgress(message string) error {
	fmt.Fprintf(w.out, "::debug::%s\n", escapeMessage(message))
	return nil
}

// WriteError writes an error.
func (w *GitHubActionsWriter) WriteError(err error) error {
	fmt.Fprintf(w.out, "::error::%s\n", escapeMessage(err.Error()))
	return nil
}

// Flush writes a summary notice for the results seen so far.
func (w *GitHubActionsWriter) Flush() error {
	if len(w.results) == 0 {
		return nil
	}

	failed := 0
	for _, r := range w.results {
		if !r.Passed() {
			failed++
		}
	}

	level := "notice"
	if failed > 0 {
		level = "error"
	}
	summary := fmt.Sprintf("%d snapshot(s) checked, %d failing", len(w.results), failed)
	fmt.Fprintf(w.out, "::%s title=Snapshot Results::%s\n", level, escapeMessage(summary))

	w.results = nil
	return nil
}

// kindToLevel converts a result kind to a GitHub Actions level.
func (w *GitHubActionsWriter) kindToLevel(k snapshot.Kind) string {
	switch k {
	case snapshot.KindMismatch, snapshot.KindDebugMismatch, snapshot.KindDebugSaveFailed, snapshot.KindNoBaselineFound:
		return "error"
	default:
		return "warning"
	}
}

// escapeMessage escapes special characters for GitHub Actions.
// GitHub Actions uses %25, %0A, and %0D for %, \n, and \r.
func escapeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "%", "%25")
	msg = strings.ReplaceAll(msg, "\n", "%0A")
	msg = strings.ReplaceAll(msg, "\r", "%0D")
	return msg
}

// escapeProperty additionally escapes the property separators.
func escapeProperty(s string) string {
	s = escapeMessage(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	s = strings.ReplaceAll(s, ",", "%2C")
	return s
}

// Ensure GitHubActionsWriter implements the interface.
var _ ports.ResultWriter = (*GitHubActionsWriter)(nil)
