package bootstrap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"goldenticket/config"
	"goldenticket/storage"
)

// ClassifyStoreError provides specific error messages based on the type of store failure.
func ClassifyStoreError(err error, connectionString string) string {
	if err == nil {
		return ""
	}

	envVar := config.EnvPrefix + "_CONNECTIONSTRING"
	if errors.Is(err, storage.ErrEmptyDataSource) {
		return fmt.Sprintf("No database configured: %v\n"+
			"  Remediation:\n"+
			"  - Set %s in appsettings.yaml, e.g. \"Data Source=goldenticket.db\"\n"+
			"  - Or export %s", err, config.ConnectionStringKey, envVar)
	}

	dbPath, parseErr := storage.ParseDataSource(connectionString)
	if parseErr != nil {
		dbPath = connectionString
	}
	absPath, _ := filepath.Abs(dbPath)
	parentDir := filepath.Dir(absPath)
	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "permission denied") || strings.Contains(errStr, "access denied"):
		return fmt.Sprintf("Permission denied accessing database at %s.\n"+
			"  Remediation:\n"+
			"  - Check file permissions: ls -la %s\n"+
			"  - Check directory permissions: ls -la %s\n"+
			"  - For Docker: Ensure volume is mounted with proper user permissions",
			absPath, absPath, parentDir)

	case strings.Contains(errStr, "database is locked") || strings.Contains(errStr, "sqlite_busy"):
		return fmt.Sprintf("Database at %s is locked by another process.\n"+
			"  Remediation:\n"+
			"  - Check for another running goldenticket instance\n"+
			"  - Wait for any migration to complete", absPath)

	case strings.Contains(errStr, "corrupt") || strings.Contains(errStr, "malformed"):
		return fmt.Sprintf("Database at %s appears to be corrupted.\n"+
			"  CRITICAL: Backup any existing data before proceeding!\n"+
			"  Remediation:\n"+
			"  - Check integrity: sqlite3 %s \"PRAGMA integrity_check;\"\n"+
			"  - Restore from backup", absPath, absPath)

	case strings.Contains(errStr, "read-only"):
		return fmt.Sprintf("Database location is on a read-only file system: %s.\n"+
			"  Remediation:\n"+
			"  - Move the database to a writable location via %s", absPath, envVar)
	}

	return fmt.Sprintf("Failed to open database at %s: %v\n"+
		"  Remediation:\n"+
		"  - Ensure the directory %s exists and is writable\n"+
		"  - Check disk space and permissions", absPath, err, parentDir)
}
