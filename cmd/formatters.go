package cmd

import (
	"fmt"
	"io"
	"strings"

	"goldenticket/storage"
)

// renderMigrationResult displays the outcome of a migrate run
func renderMigrationResult(w io.Writer, result *storage.MigrationResult) {
	if len(result.Applied) == 0 {
		infoColor.Fprintf(w, "Database already at newest version (%s)\n", displayVersion(result.Latest))
		return
	}

	successColor.Fprintf(w, "✓ Applied %d migration(s)\n", len(result.Applied))
	for _, v := range result.Applied {
		fmt.Fprintf(w, "  - %s\n", v)
	}
	fmt.Fprintf(w, "  Now at: %s\n", displayVersion(result.Latest))
}

// renderMigrationStatus displays applied, pending and integrity information
func renderMigrationStatus(w io.Writer, status *storage.MigrationStatus) {
	headerColor.Fprintln(w, "MIGRATION STATUS")
	headerColor.Fprintln(w, strings.Repeat("=", 40))

	fmt.Fprintf(w, "  Latest applied: %s\n", displayVersion(status.LatestApplied))
	fmt.Fprintf(w, "  Applied:        %d of %d\n", status.AppliedCount, status.TotalRegistered)

	if status.PendingCount == 0 {
		successColor.Fprintln(w, "  ✓ No pending migrations")
	} else {
		warningColor.Fprintf(w, "  Pending:        %s\n", strings.Join(status.Pending, ", "))
	}

	if len(status.IntegrityIssues) > 0 {
		errorColor.Fprintln(w, "\n  Integrity issues:")
		for _, issue := range status.IntegrityIssues {
			fmt.Fprintf(w, "    - %s\n", issue)
		}
	}
}

func displayVersion(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
