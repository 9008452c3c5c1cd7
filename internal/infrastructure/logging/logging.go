// Package logging builds the diagnostic slog logger used by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Options configures New.
type Options struct {
	// Level is a level name; see ParseLevel.
	Level string

	// Output defaults to os.Stderr.
	Output io.Writer

	// Terminal forces colored terminal output on or off. Nil detects it
	// from Output.
	Terminal *bool
}

// New returns a logger writing to opts.Output. Terminals get tint's
// colored handler without timestamps; everything else gets slog's text
// handler.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := &slog.LevelVar{}
	level.Set(ParseLevel(opts.Level))

	terminal := isTerminal(out)
	if opts.Terminal != nil {
		terminal = *opts.Terminal
	}

	if terminal {
		return slog.New(newTerminalHandler(out, level))
	}
	return slog.New(newTextHandler(out, level))
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "err", "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

func newTextHandler(out io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(out io.Writer, level slog.Leveler) slog.Handler {
	return tint.NewHandler(out, &tint.Options{
		NoColor:   runtime.GOOS == "windows",
		AddSource: level.Level() <= slog.LevelDebug,
		Level:     level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
