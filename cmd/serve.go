package cmd

import (
	"context"
	"fmt"

	"goldenticket/bootstrap"

	"github.com/spf13/cobra"
)

// newServeCmd creates the 'serve' subcommand
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

// runServe runs the bootstrap sequence and serves until SIGINT or SIGTERM
func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := bootstrap.NewApp(bootstrap.Options{ConfigPath: configFile})
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		_ = app.Shutdown(ctx)
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.WaitForShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
