package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"goldenticket/core"
)

// ListSchools returns every school ordered by name
func (s *SQLite) ListSchools() ([]core.School, error) {
	rows, err := s.ReadDB.Query(`
		SELECT id, name, address, city, state, zip_code, phone, max_total_seats, max_low_income_seats, created_at
		FROM schools
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer rows.Close()

	schools := make([]core.School, 0)
	for rows.Next() {
		school, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, *school)
	}
	return schools, rows.Err()
}

// GetSchool returns a school by ID or ErrSchoolNotFound
func (s *SQLite) GetSchool(id int64) (*core.School, error) {
	row := s.ReadDB.QueryRow(`
		SELECT id, name, address, city, state, zip_code, phone, max_total_seats, max_low_income_seats, created_at
		FROM schools
		WHERE id = ?
	`, id)

	school, err := scanSchool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSchoolNotFound
	}
	return school, err
}

// GetGlobalConfiguration returns the most recent global configuration or ErrConfigurationNotFound
func (s *SQLite) GetGlobalConfiguration() (*core.GlobalConfiguration, error) {
	var (
		gc         core.GlobalConfiguration
		lotteryRun sql.NullTime
		welcome    sql.NullString
	)
	err := s.ReadDB.QueryRow(`
		SELECT id, open_date, close_date, lottery_run_date, welcome_message, created_at
		FROM global_configurations
		ORDER BY id DESC
		LIMIT 1
	`).Scan(&gc.ID, &gc.OpenDate, &gc.CloseDate, &lotteryRun, &welcome, &gc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigurationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query global configuration: %w", err)
	}

	if lotteryRun.Valid {
		t := lotteryRun.Time
		gc.LotteryRunDate = &t
	}
	gc.WelcomeMessage = welcome.String
	return &gc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchool(row rowScanner) (*core.School, error) {
	var (
		school                               core.School
		address, city, state, zipCode, phone sql.NullString
	)
	err := row.Scan(&school.ID, &school.Name, &address, &city, &state, &zipCode, &phone,
		&school.MaxTotalSeats, &school.MaxLowIncomeSeats, &school.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan school: %w", err)
	}
	school.Address = address.String
	school.City = city.String
	school.State = state.String
	school.ZipCode = zipCode.String
	school.Phone = phone.String
	return &school, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
