package writers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/internal/domain/snapshot"
)

// ConsoleWriter writes human-readable output to the console.
type ConsoleWriter struct {
	out       io.Writer
	err       io.Writer
	color     bool
	verbosity ports.Verbosity

	// Color functions
	red    func(a ...interface{}) string
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	bold   func(a ...interface{}) string
	dim    func(a ...interface{}) string
}

// NewConsoleWriter creates a new console writer.
func NewConsoleWriter(opts ...ConsoleOption) *ConsoleWriter {
	w := &ConsoleWriter{
		out:       os.Stdout,
		err:       os.Stderr,
		color:     true,
		verbosity: ports.VerbosityNormal,
	}

	for _, opt := range opts {
		opt(w)
	}

	w.initColors()
	return w
}

// ConsoleOption configures the console writer.
type ConsoleOption func(*ConsoleWriter)

// WithOutput sets the output writer.
func WithOutput(out io.Writer) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.out = out
	}
}

// WithErrorOutput sets the error output writer.
func WithErrorOutput(err io.Writer) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.err = err
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.color = enabled
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v ports.Verbosity) ConsoleOption {
	return func(w *ConsoleWriter) {
		w.verbosity = v
	}
}

func (w *ConsoleWriter) initColors() {
	if w.color {
		w.red = color.New(color.FgRed).SprintFunc()
		w.green = color.New(color.FgGreen).SprintFunc()
		w.yellow = color.New(color.FgYellow).SprintFunc()
		w.cyan = color.New(color.FgCyan).SprintFunc()
		w.bold = color.New(color.Bold).SprintFunc()
		w.dim = color.New(color.Faint).SprintFunc()
	} else {
		noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
		w.red = noColor
		w.green = noColor
		w.yellow = noColor
		w.cyan = noColor
		w.bold = noColor
		w.dim = noColor
	}
}

// SetColor enables or disables colored output.
func (w *ConsoleWriter) SetColor(enabled bool) {
	w.color = enabled
	w.initColors()
}

// SetVerbosity sets the output detail level.
func (w *ConsoleWriter) SetVerbosity(v ports.Verbosity) {
	w.verbosity = v
}

func (w *ConsoleWriter) verbose() bool {
	return w.verbosity == ports.VerbosityVerbose || w.verbosity == ports.VerbosityDebug
}

// WriteResult writes one resolution outcome. Quiet verbosity only prints
// failures.
func (w *ConsoleWriter) WriteResult(r snapshot.Result) error {
	if w.verbosity == ports.VerbosityQuiet && r.Passed() {
		return nil
	}

	fmt.Fprintf(w.out, "%s %s %s\n", w.badge(r.Kind), w.bold(r.Identity.String()), r.Message)

	if w.verbose() || !r.Passed() {
		fmt.Fprintf(w.out, "  %s %s\n", w.dim("Snapshot:"), r.Path)
	}
	if r.FailedVariantSaved() {
		fmt.Fprintf(w.out, "  %s %s\n", w.dim("Failed variant:"), r.FailedPath)
	}
	if w.verbose() {
		fmt.Fprintf(w.out, "  %s %s\n", w.dim("Modes:"), r.Modes.String())
		fmt.Fprintf(w.out, "  %s %s\n", w.dim("Test file:"), r.Identity.TestFile)
	}

	return nil
}

// WriteEntries writes a listing of stored snapshots.
func (w *ConsoleWriter) WriteEntries(entries []snapshot.Entry) error {
	if len(entries) == 0 {
		if w.verbosity != ports.VerbosityQuiet {
			fmt.Fprintln(w.out, w.dim("No snapshots found"))
		}
		return nil
	}

	fmt.Fprintf(w.out, "%s\n", w.bold("Snapshots"))
	fmt.Fprintf(w.out, "%s\n", strings.Repeat("-", 40))

	for _, e := range entries {
		marker := "  "
		if e.Failed {
			marker = w.red("! ")
		}
		fmt.Fprintf(w.out, "%s%s/%s", marker, w.cyan(e.Group), e.Name)
		if w.verbose() {
			fmt.Fprintf(w.out, " %s", w.dim(fmt.Sprintf("(%d bytes) %s", e.Size, e.Path)))
		}
		fmt.Fprintln(w.out)
	}

	fmt.Fprintf(w.out, "%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(w.out, "Total: %d, Failed variants: %d\n", len(entries), snapshot.CountFailed(entries))
	return nil
}

// WriteProgress writes a progress message.
func (w *ConsoleWriter) WriteProgress(message string) error {
	if w.verbosity == ports.VerbosityQuiet {
		return nil
	}

	fmt.Fprintf(w.out, "%s %s\n", w.dim(">>>"), message)
	return nil
}

// WriteError writes an error message.
func (w *ConsoleWriter) WriteError(err error) error {
	fmt.Fprintf(w.err, "%s %s\n", w.red("ERROR:"), err.Error())
	return nil
}

// Flush ensures all output is written.
func (w *ConsoleWriter) Flush() error {
	return nil
}

// badge returns a colored status label for a result kind.
func (w *ConsoleWriter) badge(k snapshot.Kind) string {
	switch {
	case k.Passed():
		return w.green("[PASS]")
	case k.IsHardFailure(), k == snapshot.KindMismatch:
		return w.red("[FAIL]")
	case k == snapshot.KindUnknown:
		return "[UNKNOWN]"
	default:
		// Intentional state changes still fail the test run.
		return w.yellow("[" + k.String() + "]")
	}
}

// Ensure ConsoleWriter implements the interface.
var _ ports.ResultWriter = (*ConsoleWriter)(nil)
