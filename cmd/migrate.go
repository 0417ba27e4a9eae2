package cmd

import (
	"fmt"
	"time"

	"goldenticket/bootstrap"
	"goldenticket/config"
	"goldenticket/storage"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

// newMigrateCmd creates the 'migrate' subcommand
func newMigrateCmd() *cobra.Command {
	var (
		outputJSON   bool
		showProgress bool
	)

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Apply every pending schema migration and exit. Seed data is never
inserted by this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			var s *spinner.Spinner
			if showProgress && !outputJSON {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
				s.Suffix = " Applying migrations..."
				s.Start()
			}

			result, err := store.Migrate()

			if s != nil {
				s.Stop()
			}

			if err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}

			if outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), result)
			}
			renderMigrationResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	migrateCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output in JSON format")
	migrateCmd.Flags().BoolVar(&showProgress, "progress", true, "Show progress indicator")

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := store.MigrationStatus()
			if err != nil {
				return fmt.Errorf("failed to read migration status: %w", err)
			}

			if outputJSON {
				return outputAsJSON(cmd.OutOrStdout(), status)
			}
			renderMigrationStatus(cmd.OutOrStdout(), status)
			return nil
		},
	})

	return migrateCmd
}

// openStore loads configuration and opens the configured store
func openStore() (*storage.SQLite, func(), error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, _, err := bootstrap.InitLogger(zapcore.WarnLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	sugar := logger.Sugar()

	store, err := bootstrap.OpenStore(storage.NewFactory(cfg.ConnectionString, sugar), cfg.ConnectionString)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
		_ = sugar.Sync()
	}
	return store, cleanup, nil
}
