package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	connect     services.Connector
	prompter    tasks.Prompter
	openHistory func(path string) (*sql.DB, error)
	getenv      func(string) string
	logger      *log.Logger
	input       io.Reader
	output      io.Writer
	errOutput   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config means the --config file is read on every command.
type RunnerOpts struct {
	Config      *shared.Config
	Connect     services.Connector
	Prompter    tasks.Prompter
	OpenHistory func(path string) (*sql.DB, error)
	Getenv      func(string) string
	Logger      *log.Logger
	Input       io.Reader
	Output      io.Writer
	ErrOutput   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Connect == nil {
		opts.Connect = services.ConnectSpotify
	}
	if opts.OpenHistory == nil {
		opts.OpenHistory = shared.OpenHistory
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}

	return &Runner{
		config:      opts.Config,
		connect:     opts.Connect,
		prompter:    opts.Prompter,
		openHistory: opts.OpenHistory,
		getenv:      opts.Getenv,
		logger:      opts.Logger,
		input:       opts.Input,
		output:      opts.Output,
		errOutput:   opts.ErrOutput,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){configCommand, historyCommand} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig returns the injected config, or reads the --config file. A missing file is only an
// error when the path was given explicitly.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	if r.config != nil {
		return r.config, nil
	}

	path := cmd.String("config")
	if cmd.IsSet("config") {
		return shared.LoadConfig(path)
	}
	return shared.LoadConfigOrDefault(path)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
