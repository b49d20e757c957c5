// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"taskdeck/internal/backend/rest"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The dispatcher puts the configured logger on ctx before calling this.
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return rest.New(ctx, cfg, rest.WithLogger(*zerolog.Ctx(ctx)))
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
