package ports

// OutputConfig configures output format and behavior.
type OutputConfig struct {
	Format    OutputFormat
	Verbosity Verbosity
	Color     bool
}

// OutputFormat specifies the output format.
type OutputFormat string

// Available output formats.
const (
	OutputFormatConsole       OutputFormat = "console"
	OutputFormatJSON          OutputFormat = "json"
	OutputFormatGitHubActions OutputFormat = "github"
)

// Verbosity controls output detail level.
type Verbosity string

// Available verbosity levels.
const (
	VerbosityQuiet   Verbosity = "quiet"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
	VerbosityDebug   Verbosity = "debug"
)

// ParseVerbosity converts a string to a Verbosity, defaulting to normal.
func ParseVerbosity(s string) Verbosity {
	switch Verbosity(s) {
	case VerbosityQuiet, VerbosityVerbose, VerbosityDebug:
		return Verbosity(s)
	default:
		return VerbosityNormal
	}
}
