package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ConnectionStringKey is the setting consumed by the store factory.
const ConnectionStringKey = "connectionString"

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "GOLDENTICKET"

// Source is a read-only string-typed key/value settings source.
// *viper.Viper satisfies it.
type Source interface {
	GetString(key string) string
}

// Config holds all configuration for the Golden Ticket service
type Config struct {
	// ConnectionString is the engine-specific store descriptor, e.g. "Data Source=goldenticket.db".
	// It is intentionally not validated here; a bad value fails when the store is opened.
	ConnectionString string `mapstructure:"connectionstring"`

	// Environment is the raw hosting environment name ("Development", "Production", ...)
	Environment string `mapstructure:"environment"`

	Server struct {
		Addr            string        `mapstructure:"addr" validate:"required"`
		ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
		WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	} `mapstructure:"server"`

	Logging struct {
		Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	} `mapstructure:"logging"`
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "Production")
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("logging.level", "")
}

// loadFromEnv sets up environment variable loading
func loadFromEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	_ = v.BindEnv(ConnectionStringKey, EnvPrefix+"_CONNECTIONSTRING")
	_ = v.BindEnv("environment", EnvPrefix+"_ENVIRONMENT")
}

// New builds the viper instance backing a Config. An empty path searches for
// appsettings.{yaml,json} in the working directory and ./config.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)
	loadFromEnv(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("appsettings")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults and env vars only
	}

	return v, nil
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper decodes and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConnectionString = ResolveConnectionString(v)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ResolveConnectionString returns the value bound to connectionString.
// Absent keys resolve to the empty string.
func ResolveConnectionString(src Source) string {
	return src.GetString(ConnectionStringKey)
}

// Env returns the parsed hosting environment
func (c *Config) Env() Environment {
	return ParseEnvironment(c.Environment)
}

// LogLevel returns the configured log level, falling back to debug in
// Development and info otherwise.
func (c *Config) LogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	if c.Env().IsDevelopment() {
		return "debug"
	}
	return "info"
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateConfig validates server and logging settings. The connection string
// is skipped on purpose.
func validateConfig(cfg *Config) error {
	return validate.Struct(cfg)
}
