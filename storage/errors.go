package storage

import "errors"

var (
	// ErrEmptyDataSource is returned when the connection string names no database
	ErrEmptyDataSource = errors.New("connection string has no data source")

	// ErrSchoolNotFound is returned when a school is not found
	ErrSchoolNotFound = errors.New("school not found")

	// ErrConfigurationNotFound is returned when no global configuration row exists
	ErrConfigurationNotFound = errors.New("global configuration not found")
)
