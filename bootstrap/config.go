package bootstrap

import (
	"fmt"
	"os"

	"goldenticket/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger. The level can be raised or lowered
// after startup through the returned AtomicLevel.
func InitLogger(level zapcore.Level) (*zap.Logger, zap.AtomicLevel, error) {
	atomic := zap.NewAtomicLevelAt(level)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		atomic,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, atomic, nil
}

// InitConfig loads the application configuration.
func InitConfig(path string, sugar *zap.SugaredLogger) (*config.Config, error) {
	v, err := config.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load config: %v\n", err)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if v.ConfigFileUsed() == "" {
		sugar.Info("No config file found, using defaults and env vars")
	} else {
		sugar.Infow("Loaded config file", "path", v.ConfigFileUsed())
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Invalid config: %v\n", err)
		return nil, err
	}

	sugar.Infow("Hosting environment", "environment", cfg.Environment, "development", cfg.Env().IsDevelopment())
	return cfg, nil
}
