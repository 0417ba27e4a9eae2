package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, store *SQLite, table string) int {
	t.Helper()
	var count int
	require.NoError(t, store.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))
	return count
}

func TestLoadSeedData(t *testing.T) {
	data, err := LoadSeedData()
	require.NoError(t, err)

	require.Len(t, data.Schools, 3)
	require.Len(t, data.GlobalConfigurations, 1)
	for _, s := range data.Schools {
		assert.NotEmpty(t, s.Name)
		assert.Positive(t, s.MaxTotalSeats)
	}
	gc := data.GlobalConfigurations[0]
	assert.True(t, gc.OpenDate.Before(gc.CloseDate))
	require.NotNil(t, gc.LotteryRunDate)
}

func TestSeed_EmptyStoreInsertsFixedSet(t *testing.T) {
	store := newMigratedStore(t)

	result, err := Seed(store)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Schools)
	assert.Equal(t, 1, result.GlobalConfigurations)
	assert.Equal(t, 4, result.Total())
	assert.Equal(t, 3, countRows(t, store, "schools"))
	assert.Equal(t, 1, countRows(t, store, "global_configurations"))
}

func TestSeed_IsIdempotent(t *testing.T) {
	store := newMigratedStore(t)

	_, err := Seed(store)
	require.NoError(t, err)

	result, err := Seed(store)
	require.NoError(t, err)
	assert.Zero(t, result.Total())
	assert.Equal(t, 3, countRows(t, store, "schools"))
	assert.Equal(t, 1, countRows(t, store, "global_configurations"))
}

func TestSeed_ChecksEachTableIndependently(t *testing.T) {
	store := newMigratedStore(t)
	_, err := store.DB.Exec("INSERT INTO schools (name, max_total_seats) VALUES ('Existing School', 10)")
	require.NoError(t, err)

	result, err := Seed(store)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Schools)
	assert.Equal(t, 1, result.GlobalConfigurations)
	assert.Equal(t, 1, countRows(t, store, "schools"))
}

func TestSeed_UnmigratedStoreFails(t *testing.T) {
	store := newTestStore(t)

	_, err := Seed(store)
	assert.Error(t, err)
}
