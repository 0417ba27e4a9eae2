package storage

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"goldenticket/metrics"

	"go.uber.org/zap"
)

// Migration is one step of the ordered schema log
type Migration struct {
	Version     string              // Semantic version (e.g., "1.0.0")
	Name        string              // Descriptive name (e.g., "create_schools")
	Description string              // Human-readable description
	Up          func(*sql.Tx) error // Apply migration
	Checksum    string              // Detects edits to an already applied migration
}

// MigrationRecord represents a row in the schema_migrations table
type MigrationRecord struct {
	ID        int64
	Version   string
	Name      string
	Checksum  string
	AppliedAt time.Time
	Duration  int64 // milliseconds
}

// MigrationResult describes one RunMigrations call
type MigrationResult struct {
	Applied []string `json:"applied"` // versions applied by this run, in order
	Latest  string   `json:"latest"`  // highest applied version after the run
}

// MigrationStatus summarises the migration log against the registered migrations
type MigrationStatus struct {
	TotalRegistered int      `json:"total_registered"`
	AppliedCount    int      `json:"applied_count"`
	PendingCount    int      `json:"pending_count"`
	Pending         []string `json:"pending"`
	LatestApplied   string   `json:"latest_applied"`
	IntegrityIssues []string `json:"integrity_issues"`
}

// MigrationRunner applies registered migrations in version order
type MigrationRunner struct {
	db         *sql.DB
	logger     *zap.SugaredLogger
	migrations []Migration
}

// NewMigrationRunner creates a runner and ensures the history table exists
func NewMigrationRunner(db *sql.DB, logger *zap.SugaredLogger) (*MigrationRunner, error) {
	runner := &MigrationRunner{
		db:         db,
		logger:     logger,
		migrations: make([]Migration, 0),
	}

	if err := runner.ensureMigrationsTable(); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}
	return runner, nil
}

func (r *MigrationRunner) ensureMigrationsTable() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		checksum TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Register adds a migration to the runner
func (r *MigrationRunner) Register(m Migration) {
	if m.Checksum == "" {
		m.Checksum = calculateChecksum(m)
	}
	r.migrations = append(r.migrations, m)
}

// calculateChecksum hashes version and name; Up functions cannot be hashed
func calculateChecksum(m Migration) string {
	hash := sha256.Sum256([]byte(m.Version + ":" + m.Name))
	return hex.EncodeToString(hash[:8])
}

// GetAppliedMigrations returns all applied migrations in version order
func (r *MigrationRunner) GetAppliedMigrations() ([]MigrationRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, version, name, checksum, applied_at, duration_ms
		FROM schema_migrations
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var records []MigrationRecord
	for rows.Next() {
		var rec MigrationRecord
		if err := rows.Scan(&rec.ID, &rec.Version, &rec.Name, &rec.Checksum, &rec.AppliedAt, &rec.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan migration record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Lexical ORDER BY would put 1.10.0 before 1.2.0
	sort.Slice(records, func(i, j int) bool {
		return compareVersions(records[i].Version, records[j].Version) < 0
	})
	return records, nil
}

// GetPendingMigrations returns registered migrations not yet applied, in version order
func (r *MigrationRunner) GetPendingMigrations() ([]Migration, error) {
	applied, err := r.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}

	appliedSet := make(map[string]bool, len(applied))
	for _, rec := range applied {
		appliedSet[rec.Version] = true
	}

	var pending []Migration
	for _, m := range r.migrations {
		if !appliedSet[m.Version] {
			pending = append(pending, m)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return compareVersions(pending[i].Version, pending[j].Version) < 0
	})
	return pending, nil
}

// RunMigrations applies all pending migrations. Already applied versions are
// skipped, so a second call is a no-op. The first failure aborts the run.
func (r *MigrationRunner) RunMigrations() (*MigrationResult, error) {
	pending, err := r.GetPendingMigrations()
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{Applied: make([]string, 0, len(pending))}
	if len(pending) == 0 {
		r.logger.Debug("No pending migrations")
	} else {
		r.logger.Infof("Running %d pending migrations", len(pending))
	}

	for _, m := range pending {
		if err := r.runMigration(m); err != nil {
			return nil, fmt.Errorf("migration %s (%s) failed: %w", m.Version, m.Name, err)
		}
		result.Applied = append(result.Applied, m.Version)
		metrics.MigrationsApplied.Inc()
	}

	applied, err := r.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}
	result.Latest = latestVersion(applied)
	return result, nil
}

// runMigration applies a single migration and records it in one transaction.
// A panicking Up is converted into an error.
func (r *MigrationRunner) runMigration(m Migration) (err error) {
	if m.Up == nil {
		return errors.New("migration has no Up function")
	}

	r.logger.Infof("Running migration %s: %s", m.Version, m.Name)
	start := time.Now()

	var tx *sql.Tx
	tx, err = r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			if panicAsErr, ok := p.(error); ok {
				err = fmt.Errorf("migration panicked: %w", panicAsErr)
			} else {
				err = fmt.Errorf("migration panicked: %v", p)
			}
		}
	}()

	if err := m.Up(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration Up() failed: %w", err)
	}

	duration := time.Since(start).Milliseconds()
	_, err = tx.Exec(`
		INSERT INTO schema_migrations (version, name, checksum, applied_at, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`, m.Version, m.Name, m.Checksum, time.Now().UTC(), duration)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	r.logger.Infof("Migration %s completed in %dms", m.Version, duration)
	return nil
}

// VerifyIntegrity reports applied migrations whose checksum changed or that
// are no longer registered
func (r *MigrationRunner) VerifyIntegrity() ([]string, error) {
	applied, err := r.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}

	registered := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		registered[m.Version] = m
	}

	var issues []string
	for _, rec := range applied {
		m, ok := registered[rec.Version]
		if !ok {
			issues = append(issues, fmt.Sprintf(
				"Migration %s was applied but is not registered (orphaned migration)", rec.Version))
			continue
		}
		if m.Checksum != rec.Checksum {
			issues = append(issues, fmt.Sprintf(
				"Migration %s checksum mismatch: applied=%s, registered=%s (possible code drift)",
				rec.Version, rec.Checksum, m.Checksum))
		}
	}
	return issues, nil
}

// GetMigrationStatus returns a summary of migration state
func (r *MigrationRunner) GetMigrationStatus() (*MigrationStatus, error) {
	applied, err := r.GetAppliedMigrations()
	if err != nil {
		return nil, err
	}
	pending, err := r.GetPendingMigrations()
	if err != nil {
		return nil, err
	}
	issues, err := r.VerifyIntegrity()
	if err != nil {
		return nil, err
	}

	pendingVersions := make([]string, 0, len(pending))
	for _, m := range pending {
		pendingVersions = append(pendingVersions, m.Version)
	}

	return &MigrationStatus{
		TotalRegistered: len(r.migrations),
		AppliedCount:    len(applied),
		PendingCount:    len(pending),
		Pending:         pendingVersions,
		LatestApplied:   latestVersion(applied),
		IntegrityIssues: issues,
	}, nil
}

// latestVersion returns the highest version from version-sorted records
func latestVersion(applied []MigrationRecord) string {
	if len(applied) == 0 {
		return ""
	}
	return applied[len(applied)-1].Version
}

// compareVersions compares two semantic versions
// Returns -1 if a < b, 0 if a == b, 1 if a > b
func compareVersions(a, b string) int {
	partsA := strings.Split(a, ".")
	partsB := strings.Split(b, ".")

	maxLen := len(partsA)
	if len(partsB) > maxLen {
		maxLen = len(partsB)
	}

	for i := 0; i < maxLen; i++ {
		var numA, numB int
		if i < len(partsA) {
			fmt.Sscanf(partsA[i], "%d", &numA)
		}
		if i < len(partsB) {
			fmt.Sscanf(partsB[i], "%d", &numB)
		}

		if numA < numB {
			return -1
		}
		if numA > numB {
			return 1
		}
	}
	return 0
}

// validateSQLIdentifier guards identifiers interpolated into DDL
func validateSQLIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("SQL identifier cannot be empty")
	}
	if !(name[0] >= 'a' && name[0] <= 'z' || name[0] >= 'A' && name[0] <= 'Z' || name[0] == '_') {
		return fmt.Errorf("invalid SQL identifier %q: must start with letter or underscore", name)
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return fmt.Errorf("invalid SQL identifier %q: contains invalid character at position %d", name, i)
		}
	}
	return nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	if err := validateSQLIdentifier(table); err != nil {
		return false, fmt.Errorf("invalid table name: %w", err)
	}
	if err := validateSQLIdentifier(column); err != nil {
		return false, fmt.Errorf("invalid column name: %w", err)
	}

	var count int
	err := tx.QueryRow("SELECT COUNT(*) FROM pragma_table_info(?) WHERE name=?", table, column).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func addColumnIfNotExists(tx *sql.Tx, table, column, definition string) error {
	exists, err := columnExists(tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	// identifiers validated by columnExists
	_, err = tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	return err
}

func createIndexIfNotExists(tx *sql.Tx, indexName, table, columns string) error {
	if err := validateSQLIdentifier(indexName); err != nil {
		return fmt.Errorf("invalid index name: %w", err)
	}
	if err := validateSQLIdentifier(table); err != nil {
		return fmt.Errorf("invalid table name: %w", err)
	}
	for _, col := range strings.Split(columns, ",") {
		if err := validateSQLIdentifier(strings.TrimSpace(col)); err != nil {
			return fmt.Errorf("invalid column name in index: %w", err)
		}
	}

	_, err := tx.Exec(fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", indexName, table, columns))
	return err
}
