package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLite is the data context: a handle to the embedded relational store.
// Separate read and write pools let WAL mode serve concurrent readers alongside
// the single writer.
type SQLite struct {
	DB     *sql.DB // Write pool, also used for migrations and seeding
	ReadDB *sql.DB // Read-only pool (query_only)
	Path   string
	Logger *zap.SugaredLogger
}

// dataSourceKeys are the connection string keys that name the database file
var dataSourceKeys = []string{"data source", "datasource", "filename"}

// ParseDataSource extracts the database path from an ADO-style connection
// string ("Data Source=app.db;Cache=Shared"). A string without any key=value
// pair is treated as a bare path.
func ParseDataSource(connectionString string) (string, error) {
	trimmed := strings.TrimSpace(connectionString)
	if trimmed == "" {
		return "", ErrEmptyDataSource
	}
	if !strings.Contains(trimmed, "=") {
		return trimmed, nil
	}

	for _, part := range strings.Split(trimmed, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		for _, k := range dataSourceKeys {
			if key == k {
				value = strings.Trim(strings.TrimSpace(value), `"'`)
				if value == "" {
					return "", ErrEmptyDataSource
				}
				return value, nil
			}
		}
	}
	return "", fmt.Errorf("%w: no Data Source in connection string", ErrEmptyDataSource)
}

// buildDSN returns a driver DSN whose _pragma parameters are applied to every
// pooled connection, not just the first one. Both pools must see the same
// in-memory database, hence the shared cache.
func buildDSN(dbPath string, readOnly bool) string {
	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	if readOnly {
		pragmas = append(pragmas, "query_only(1)")
	}

	base := dbPath + "?"
	if dbPath == ":memory:" {
		base = "file::memory:?cache=shared&"
	}
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	return base + strings.Join(params, "&")
}

// configureSQLiteConnection verifies the pragmas carried by the DSN and, on the
// write pool, switches the file to WAL mode
func configureSQLiteConnection(db *sql.DB, logger *zap.SugaredLogger, dbPath string, poolType string) error {
	if poolType == "write" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	// SQLite disables foreign keys by default
	var fkEnabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to verify foreign keys: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys not enabled (got: %d, expected: 1)", fkEnabled)
	}

	// In-memory databases report "memory" instead of "wal"
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to query journal mode: %w", err)
	}
	if dbPath != ":memory:" && journalMode != "wal" {
		return fmt.Errorf("WAL mode not enabled (got: %s, expected: wal)", journalMode)
	}
	logger.Debugf("SQLite %s pool: journal mode %s", poolType, journalMode)

	return nil
}

// Open opens the data context described by connectionString. It does not touch
// the schema; call Migrate for that.
func Open(connectionString string, logger *zap.SugaredLogger) (*SQLite, error) {
	dbPath, err := ParseDataSource(connectionString)
	if err != nil {
		return nil, err
	}
	if err := validateDatabasePath(dbPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	writeDB, err := sql.Open("sqlite", buildDSN(dbPath, false))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite write database: %w", err)
	}
	if err := configureSQLiteConnection(writeDB, logger, dbPath, "write"); err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("failed to configure write connection: %w", err)
	}
	writeDB.SetMaxOpenConns(1)
	writeDB.SetMaxIdleConns(1)
	writeDB.SetConnMaxLifetime(0) // in-memory databases vanish with their last connection
	writeDB.SetConnMaxIdleTime(10 * time.Minute)

	readDB, err := sql.Open("sqlite", buildDSN(dbPath, true))
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("failed to open SQLite read database: %w", err)
	}
	if err := configureSQLiteConnection(readDB, logger, dbPath, "read"); err != nil {
		_ = writeDB.Close()
		_ = readDB.Close()
		return nil, fmt.Errorf("failed to configure read connection: %w", err)
	}
	var queryOnly int
	if err := readDB.QueryRow("PRAGMA query_only").Scan(&queryOnly); err != nil || queryOnly != 1 {
		_ = writeDB.Close()
		_ = readDB.Close()
		return nil, fmt.Errorf("query_only mode not enabled on read pool (got: %d, err: %v)", queryOnly, err)
	}
	readDB.SetMaxOpenConns(10)
	readDB.SetMaxIdleConns(5)
	readDB.SetConnMaxLifetime(5 * time.Minute)
	readDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Infof("SQLite store opened at %s", dbPath)

	return &SQLite{
		DB:     writeDB,
		ReadDB: readDB,
		Path:   dbPath,
		Logger: logger,
	}, nil
}

// WithTransaction executes fn within a write transaction, rolling back on error or panic
func (s *SQLite) WithTransaction(fn func(*sql.Tx) error) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction (original error: %w, rollback error: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Migrate applies every pending schema migration, blocking until done
func (s *SQLite) Migrate() (*MigrationResult, error) {
	runner, err := NewMigrationRunner(s.DB, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration runner: %w", err)
	}
	RegisterMigrations(runner)

	result, err := runner.RunMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	issues, err := runner.VerifyIntegrity()
	if err != nil {
		s.Logger.Warnf("Failed to verify migration integrity: %v", err)
	}
	for _, issue := range issues {
		s.Logger.Warnf("Migration integrity issue: %s", issue)
	}

	return result, nil
}

// MigrationStatus reports applied and pending migrations without applying anything
func (s *SQLite) MigrationStatus() (*MigrationStatus, error) {
	runner, err := NewMigrationRunner(s.DB, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration runner: %w", err)
	}
	RegisterMigrations(runner)
	return runner.GetMigrationStatus()
}

// Close closes both connection pools
func (s *SQLite) Close() error {
	var writeErr, readErr error
	if s.DB != nil {
		writeErr = s.DB.Close()
	}
	if s.ReadDB != nil {
		readErr = s.ReadDB.Close()
	}

	if writeErr != nil {
		return fmt.Errorf("failed to close write pool: %w", writeErr)
	}
	if readErr != nil {
		return fmt.Errorf("failed to close read pool: %w", readErr)
	}
	return nil
}

// HealthCheck verifies the database connection is alive
func (s *SQLite) HealthCheck() error {
	return s.DB.Ping()
}

// validateDatabasePath rejects paths SQLite would mishandle. Location is not
// restricted: the connection string is operator-supplied.
func validateDatabasePath(dbPath string) error {
	if len(dbPath) > 512 {
		return fmt.Errorf("database path exceeds maximum length of 512 characters")
	}
	if strings.Contains(dbPath, "\x00") {
		return fmt.Errorf("null bytes not allowed in path")
	}

	// Windows device names hang or silently discard writes
	base := strings.ToUpper(filepath.Base(dbPath))
	reserved := []string{"CON", "PRN", "AUX", "NUL", "COM1", "COM2", "COM3", "COM4",
		"COM5", "COM6", "COM7", "COM8", "COM9", "LPT1", "LPT2", "LPT3", "LPT4",
		"LPT5", "LPT6", "LPT7", "LPT8", "LPT9"}
	for _, r := range reserved {
		if base == r || strings.HasPrefix(base, r+".") {
			return fmt.Errorf("reserved name not allowed: %s", filepath.Base(dbPath))
		}
	}
	return nil
}
