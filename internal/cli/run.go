package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/aretw0/questline/internal/config"
	"github.com/aretw0/questline/internal/logging"
)

// RunOptions contains all the configuration for the CLI commands.
type RunOptions struct {
	Path     string
	Headless bool
	Watch    bool
	Debug    bool
	Seed     uint64
	LogLevel string
	Addr     string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Defaults fills the options from the environment, leaving explicit values alone.
func Defaults(opts RunOptions) (RunOptions, error) {
	cfg, err := config.Load()
	if err != nil {
		return opts, err
	}
	if opts.Path == "" {
		opts.Path = cfg.Scenario
	}
	if opts.Seed == 0 {
		opts.Seed = cfg.Seed
	}
	if opts.LogLevel == "" {
		opts.LogLevel = cfg.LogLevel
	}
	if opts.Addr == "" {
		opts.Addr = cfg.Addr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	return opts, nil
}

// createLogger configures the application logger.
// Debug forces the debug level; an empty level silences logging.
func createLogger(opts RunOptions) (*slog.Logger, error) {
	if opts.Debug {
		return logging.NewWriter(opts.Err, slog.LevelDebug), nil
	}
	if opts.LogLevel == "" {
		return logging.NewNop(), nil
	}
	level, err := config.Config{LogLevel: opts.LogLevel}.Level()
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(opts.Err, level), nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
