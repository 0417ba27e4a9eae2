package storage

import "go.uber.org/zap"

// Factory produces data contexts bound to one connection string. Each call
// opens a fresh handle that the caller owns and must Close.
type Factory func() (*SQLite, error)

// NewFactory binds connectionString without opening anything. A bad
// connection string is reported by the first call.
func NewFactory(connectionString string, logger *zap.SugaredLogger) Factory {
	return func() (*SQLite, error) {
		return Open(connectionString, logger)
	}
}
