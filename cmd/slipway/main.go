// Package main provides the slipway command line interface.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/driftworks/slipway/pkg/logger"
)

func main() {
	// Local development overrides; absence of a .env file is fine.
	_ = godotenv.Load()

	log := logger.Default()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(log)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(log *logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "slipway",
		Short:         "Build resolution and synchronization engine",
		Long:          "slipway resolves the container image builds a deploy depends on,\ncreates missing ones, waits for completion and validates the results.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand(log))
	root.AddCommand(newResolveCommand(log))
	root.AddCommand(newWorkCommand(log))

	return root
}
