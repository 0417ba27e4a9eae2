package storage

import (
	"database/sql"
	_ "embed"
	"fmt"

	"goldenticket/core"
	"goldenticket/metrics"

	"gopkg.in/yaml.v3"
)

//go:embed seed_data.yaml
var seedDataYAML []byte

// SeedData is the fixed development record set
type SeedData struct {
	Schools              []core.School              `yaml:"schools"`
	GlobalConfigurations []core.GlobalConfiguration `yaml:"global_configurations"`
}

// SeedResult counts the records inserted per table by one Seed call
type SeedResult struct {
	Schools              int `json:"schools"`
	GlobalConfigurations int `json:"global_configurations"`
}

// Total returns the number of records inserted across all tables
func (r SeedResult) Total() int {
	return r.Schools + r.GlobalConfigurations
}

// LoadSeedData decodes the embedded seed set
func LoadSeedData() (*SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(seedDataYAML, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// Seed inserts the fixed seed set for every table that is still empty.
// Tables that already hold rows are left alone, so repeated calls insert nothing.
func Seed(s *SQLite) (SeedResult, error) {
	var result SeedResult

	data, err := LoadSeedData()
	if err != nil {
		return result, err
	}

	err = s.WithTransaction(func(tx *sql.Tx) error {
		empty, err := tableIsEmpty(tx, "schools")
		if err != nil {
			return err
		}
		if empty {
			for _, school := range data.Schools {
				if _, err := tx.Exec(`
					INSERT INTO schools (name, address, city, state, zip_code, phone, max_total_seats, max_low_income_seats)
					VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				`, school.Name, school.Address, school.City, school.State, school.ZipCode,
					school.Phone, school.MaxTotalSeats, school.MaxLowIncomeSeats); err != nil {
					return fmt.Errorf("failed to seed school %q: %w", school.Name, err)
				}
				result.Schools++
			}
		}

		empty, err = tableIsEmpty(tx, "global_configurations")
		if err != nil {
			return err
		}
		if empty {
			for _, gc := range data.GlobalConfigurations {
				if _, err := tx.Exec(`
					INSERT INTO global_configurations (open_date, close_date, lottery_run_date, welcome_message)
					VALUES (?, ?, ?, ?)
				`, gc.OpenDate.UTC(), gc.CloseDate.UTC(), nullableTime(gc.LotteryRunDate), gc.WelcomeMessage); err != nil {
					return fmt.Errorf("failed to seed global configuration: %w", err)
				}
				result.GlobalConfigurations++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	metrics.SeedRecordsInserted.WithLabelValues("schools").Add(float64(result.Schools))
	metrics.SeedRecordsInserted.WithLabelValues("global_configurations").Add(float64(result.GlobalConfigurations))
	return result, nil
}

func tableIsEmpty(tx *sql.Tx, table string) (bool, error) {
	if err := validateSQLIdentifier(table); err != nil {
		return false, err
	}
	var count int
	if err := tx.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count == 0, nil
}
