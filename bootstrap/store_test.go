package bootstrap

import (
	"path/filepath"
	"testing"

	"goldenticket/config"
	"goldenticket/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func openTestStore(t *testing.T, path string) *storage.SQLite {
	t.Helper()
	store, err := storage.Open("Data Source="+path, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func countRows(t *testing.T, store *storage.SQLite, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestInitStore_DevelopmentMigratesAndSeeds(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "dev.db"))
	core, logs := observer.New(zapcore.InfoLevel)

	require.NoError(t, InitStore(store, config.EnvironmentDevelopment, zap.New(core).Sugar()))

	infos := logs.FilterLevelExact(zapcore.InfoLevel).All()
	require.Len(t, infos, 1)
	assert.Equal(t, MigratedMessage, infos[0].Message)

	assert.Equal(t, 3, countRows(t, store, "schools"))
	assert.Equal(t, 1, countRows(t, store, "global_configurations"))

	status, err := store.MigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.PendingCount)
}

func TestInitStore_DevelopmentTwiceInsertsNothingNew(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "dev.db"))
	sugar := zap.NewNop().Sugar()

	require.NoError(t, InitStore(store, config.EnvironmentDevelopment, sugar))
	require.NoError(t, InitStore(store, config.EnvironmentDevelopment, sugar))

	assert.Equal(t, 3, countRows(t, store, "schools"))
	assert.Equal(t, 1, countRows(t, store, "global_configurations"))
}

func TestInitStore_OtherNeverSeeds(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "prod.db"))
	core, logs := observer.New(zapcore.InfoLevel)

	require.NoError(t, InitStore(store, config.EnvironmentOther, zap.New(core).Sugar()))

	assert.Equal(t, 1, logs.FilterMessage(MigratedMessage).Len())
	assert.Equal(t, 0, countRows(t, store, "schools"))
	assert.Equal(t, 0, countRows(t, store, "global_configurations"))
}

func TestInitStore_MigrationFailureIsFatal(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, store.Close())
	core, logs := observer.New(zapcore.DebugLevel)

	err := InitStore(store, config.EnvironmentDevelopment, zap.New(core).Sugar())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to migrate store")
	assert.Equal(t, 0, logs.FilterMessage(MigratedMessage).Len())
}

func TestClassifyStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"empty data source", storage.ErrEmptyDataSource, "GOLDENTICKET_CONNECTIONSTRING"},
		{"unclassified", assert.AnError, "Failed to open database"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, ClassifyStoreError(tt.err, "Data Source=app.db"), tt.contains)
		})
	}

	assert.Empty(t, ClassifyStoreError(nil, ""))
}
