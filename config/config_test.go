package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string]string

func (m mapSource) GetString(key string) string { return m[key] }

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResolveConnectionString(t *testing.T) {
	tests := []struct {
		name string
		src  mapSource
		want string
	}{
		{"present", mapSource{"connectionString": "Data Source=app.db"}, "Data Source=app.db"},
		{"absent resolves to empty", mapSource{}, ""},
		{"malformed is passed through", mapSource{"connectionString": ";;;"}, ";;;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveConnectionString(tt.src))
		})
	}
}

func TestLoadConfig_FromYAMLFile(t *testing.T) {
	path := writeSettings(t, "appsettings.yaml", `
connectionString: "Data Source=golden.db"
environment: Development
server:
  addr: ":8080"
  shutdown_timeout: 3s
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Data Source=golden.db", cfg.ConnectionString)
	assert.Equal(t, EnvironmentDevelopment, cfg.Env())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.LogLevel())
}

func TestLoadConfig_FromJSONFile(t *testing.T) {
	path := writeSettings(t, "appsettings.json", `{"connectionString": "Data Source=json.db"}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Data Source=json.db", cfg.ConnectionString)
	assert.Equal(t, EnvironmentOther, cfg.Env())
	assert.Equal(t, "info", cfg.LogLevel())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeSettings(t, "appsettings.yaml", "connectionString: \"Data Source=file.db\"\n")
	t.Setenv("GOLDENTICKET_CONNECTIONSTRING", "Data Source=env.db")
	t.Setenv("GOLDENTICKET_ENVIRONMENT", "development")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Data Source=env.db", cfg.ConnectionString)
	assert.True(t, cfg.Env().IsDevelopment())
}

func TestLoadConfig_MissingConnectionStringIsNotAnError(t *testing.T) {
	path := writeSettings(t, "appsettings.yaml", "environment: Production\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.ConnectionString)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidServerSettings(t *testing.T) {
	path := writeSettings(t, "appsettings.yaml", `
server:
  addr: ""
logging:
  level: verbose
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestParseEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want Environment
	}{
		{"Development", EnvironmentDevelopment},
		{"development", EnvironmentDevelopment},
		{" DEVELOPMENT ", EnvironmentDevelopment},
		{"Production", EnvironmentOther},
		{"Staging", EnvironmentOther},
		{"", EnvironmentOther},
		{"dev", EnvironmentOther},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEnvironment(tt.in))
		})
	}
}
