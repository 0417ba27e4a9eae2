package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFactory_DefersErrorsToFirstCall(t *testing.T) {
	factory := NewFactory("", zap.NewNop().Sugar())
	require.NotNil(t, factory)

	_, err := factory()
	assert.ErrorIs(t, err, ErrEmptyDataSource)
}

func TestNewFactory_FreshHandlePerCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factory.db")
	factory := NewFactory("Data Source="+path, zap.NewNop().Sugar())

	first, err := factory()
	require.NoError(t, err)
	_, err = first.Migrate()
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := factory()
	require.NoError(t, err)
	defer second.Close()

	status, err := second.MigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.PendingCount)
	assert.Equal(t, path, second.Path)
}
