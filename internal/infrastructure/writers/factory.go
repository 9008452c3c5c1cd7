package writers

import (
	"fmt"
	"io"
	"os"

	"github.com/felixgeelhaar/snapguard/internal/application/ports"
	"github.com/felixgeelhaar/snapguard/pkg/pathutil"
)

// Factory creates writers based on configuration.
type Factory struct {
	out io.Writer
	err io.Writer
}

// NewFactory creates a writer factory targeting stdout and stderr.
func NewFactory() *Factory {
	return &Factory{out: os.Stdout, err: os.Stderr}
}

// NewFactoryWithOutput creates a factory writing to out and errOut.
func NewFactoryWithOutput(out, errOut io.Writer) *Factory {
	return &Factory{out: out, err: errOut}
}

// Create returns a writer for config.Format.
func (f *Factory) Create(config ports.OutputConfig) (ports.ResultWriter, error) {
	switch config.Format {
	case ports.OutputFormatConsole, "":
		return NewConsoleWriter(
			WithOutput(f.out),
			WithErrorOutput(f.err),
			WithColor(config.Color),
			WithVerbosity(config.Verbosity),
		), nil
	case ports.OutputFormatJSON:
		return NewJSONWriter(WithJSONOutput(f.out)), nil
	case ports.OutputFormatGitHubActions:
		return NewGitHubActionsWriter(WithGitHubOutput(f.out)), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", config.Format)
	}
}

// CreateToFile creates a writer that outputs to a file. The returned
// writer's Flush closes the file.
func (f *Factory) CreateToFile(config ports.OutputConfig, path string) (ports.ResultWriter, error) {
	cleanPath, err := pathutil.ValidatePath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}

	file, err := os.Create(cleanPath) // #nosec G304 - path is validated above
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	switch config.Format {
	case ports.OutputFormatJSON:
		return &fileWriter{ResultWriter: NewJSONWriter(WithJSONOutput(file), WithPrettyPrint(true)), file: file}, nil
	case ports.OutputFormatConsole, "":
		w := NewConsoleWriter(
			WithOutput(file),
			WithErrorOutput(file),
			WithColor(false), // No colors in file output
			WithVerbosity(config.Verbosity),
		)
		return &fileWriter{ResultWriter: w, file: file}, nil
	default:
		_ = file.Close()
		return nil, fmt.Errorf("unsupported format for file output: %s", config.Format)
	}
}

// fileWriter closes its file on Flush.
type fileWriter struct {
	ports.ResultWriter
	file *os.File
}

func (w *fileWriter) Flush() error {
	if err := w.ResultWriter.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

var _ ports.ResultWriter = (*SilentWriter)(nil)
