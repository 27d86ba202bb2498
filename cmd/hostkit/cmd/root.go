package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/hostkit/internal/app"
	"github.com/nfrund/hostkit/internal/config"
	"github.com/nfrund/hostkit/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "hostkit",
	Short: "Run game scripts against an in-memory host",
	Long: `hostkit runs Tengo and Lua scripts against an in-memory game world through
the support module: scoreboards, action-bar messages, debug broadcasts and
equipment lookups.

Available commands:
  run        Run a script and tick the world
  scripts    List or extract the available scripts
  slots      List the equipment slot tags scripts may use
  topics     List the event topics the world publishes
  version    Print the version

Use "hostkit [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newApp loads configuration, installs the logger and builds the runtime.
// The caller shuts the returned app down.
func newApp() (*app.App, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	logging.New(cfg)

	a, err := app.New(app.Dependencies{Config: cfg, Version: version})
	if err != nil {
		return nil, fmt.Errorf("failed to build runtime: %w", err)
	}
	return a, nil
}

// withApp runs fn with a started runtime and shuts it down afterwards.
func withApp(ctx context.Context, watch bool, fn func(ctx context.Context, a *app.App) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Shutdown(context.Background())

	if err := a.Start(ctx, watch); err != nil {
		return err
	}
	return fn(ctx, a)
}
