package bootstrap

import (
	"fmt"
	"os"

	"goldenticket/config"
	"goldenticket/storage"

	"go.uber.org/zap"
)

// MigratedMessage is logged once the schema is current
const MigratedMessage = "Database created and migrated to newest version."

// InitStore brings the store's schema up to date and, in Development only,
// seeds the fixed record set into empty tables. A migration failure is fatal
// to startup.
func InitStore(store *storage.SQLite, env config.Environment, sugar *zap.SugaredLogger) error {
	result, err := store.Migrate()
	if err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	sugar.Info(MigratedMessage)
	sugar.Debugw("Schema version", "latest", result.Latest, "applied", result.Applied)

	if !env.IsDevelopment() {
		return nil
	}

	seeded, err := storage.Seed(store)
	if err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	sugar.Debugw("Seed data checked",
		"schools_inserted", seeded.Schools,
		"global_configurations_inserted", seeded.GlobalConfigurations,
	)
	return nil
}

// OpenStore calls factory and reports open failures with remediation hints
func OpenStore(factory storage.Factory, connectionString string) (*storage.SQLite, error) {
	store, err := factory()
	if err != nil {
		fmt.Fprintf(os.Stderr, "\n========================================\n")
		fmt.Fprintf(os.Stderr, "FATAL: Store Initialization Failed\n")
		fmt.Fprintf(os.Stderr, "========================================\n")
		fmt.Fprintf(os.Stderr, "%s\n", ClassifyStoreError(err, connectionString))
		fmt.Fprintf(os.Stderr, "========================================\n\n")
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}
