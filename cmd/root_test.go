package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"goldenticket/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewRootCmd tests the command hierarchy
func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "goldenticket", cmd.Use)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"], "Missing command: serve")
	assert.True(t, names["migrate"], "Missing command: migrate")

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
}

func writeSettings(t *testing.T) (settings, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "cli.db")
	settings = filepath.Join(dir, "appsettings.yaml")
	content := fmt.Sprintf("connectionString: \"Data Source=%s\"\n", dbPath)
	require.NoError(t, os.WriteFile(settings, []byte(content), 0o600))
	return settings, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCmd_JSON(t *testing.T) {
	settings, _ := writeSettings(t)

	out, err := run(t, "--config", settings, "--no-color", "migrate", "--json")
	require.NoError(t, err)

	var result storage.MigrationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"1.0.0", "1.1.0", "1.2.0", "1.3.0"}, result.Applied)
	assert.Equal(t, "1.3.0", result.Latest)

	out, err = run(t, "--config", settings, "--no-color", "migrate", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Applied)
}

func TestMigrateCmd_HumanOutput(t *testing.T) {
	settings, _ := writeSettings(t)

	out, err := run(t, "--config", settings, "--no-color", "migrate", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied 4 migration(s)")
	assert.Contains(t, out, "Now at: 1.3.0")
}

func TestMigrateStatusCmd(t *testing.T) {
	settings, _ := writeSettings(t)

	out, err := run(t, "--config", settings, "--no-color", "migrate", "status", "--json")
	require.NoError(t, err)
	var status storage.MigrationStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, 4, status.PendingCount)
	assert.Equal(t, 0, status.AppliedCount)

	_, err = run(t, "--config", settings, "migrate", "--json")
	require.NoError(t, err)

	out, err = run(t, "--config", settings, "--no-color", "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "MIGRATION STATUS")
	assert.Contains(t, out, "No pending migrations")
}

func TestMigrateCmd_MissingConfigFile(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
