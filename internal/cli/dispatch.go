// Package cli parses the command line and dispatches to registered commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/logging"
	"taskdeck/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" left over means a flag after "--" or a lone "-"
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log, err := logging.New(errOut, cfg.Settings, debug)
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid configuration: %s\n", err)
		return exitcode.AuthError
	}
	ctx = log.WithContext(ctx)

	log.Debug().Str("command", cmd.Name()).Str("config_dir", cfg.Dir).Msg("dispatch")

	var svc service.Service
	if cmd.NeedsBackend() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.AuthError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
		return "flag needs an argument: " + name
	}
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		name := strings.TrimSpace(strings.TrimPrefix(errStr, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return errStr
}
