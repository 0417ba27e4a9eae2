package storage

import (
	"database/sql"
)

// RegisterMigrations registers the ordered schema log with the runner.
// Never edit an applied migration; add a new version instead.
func RegisterMigrations(runner *MigrationRunner) {
	runner.Register(Migration{
		Version:     "1.0.0",
		Name:        "create_schools",
		Description: "Schools taking part in the lottery",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS schools (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				address TEXT,
				city TEXT,
				state TEXT,
				zip_code TEXT,
				phone TEXT,
				max_total_seats INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`)
			return err
		},
	})

	runner.Register(Migration{
		Version:     "1.1.0",
		Name:        "create_global_configurations",
		Description: "Application window and lottery date settings",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS global_configurations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				open_date DATETIME NOT NULL,
				close_date DATETIME NOT NULL,
				lottery_run_date DATETIME,
				welcome_message TEXT,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`)
			return err
		},
	})

	runner.Register(Migration{
		Version:     "1.2.0",
		Name:        "create_applicants",
		Description: "Applicants with guardian contact details and their school selections",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
			CREATE TABLE IF NOT EXISTS applicants (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				birth_date DATETIME,
				guardian_name TEXT,
				guardian_email TEXT,
				guardian_phone TEXT,
				household_income INTEGER,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE TABLE IF NOT EXISTS school_applicants (
				school_id INTEGER NOT NULL REFERENCES schools(id) ON DELETE CASCADE,
				applicant_id INTEGER NOT NULL REFERENCES applicants(id) ON DELETE CASCADE,
				PRIMARY KEY (school_id, applicant_id)
			);`)
			if err != nil {
				return err
			}
			return createIndexIfNotExists(tx, "idx_school_applicants_applicant_id", "school_applicants", "applicant_id")
		},
	})

	runner.Register(Migration{
		Version:     "1.3.0",
		Name:        "add_school_low_income_seats",
		Description: "Reserved low income seats per school and lookup by name",
		Up: func(tx *sql.Tx) error {
			if err := addColumnIfNotExists(tx, "schools", "max_low_income_seats", "INTEGER NOT NULL DEFAULT 0"); err != nil {
				return err
			}
			return createIndexIfNotExists(tx, "idx_schools_name", "schools", "name")
		},
	})
}
