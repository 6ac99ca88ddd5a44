package utils

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetViperConfig reads a yaml config file if provided.
func SetViperConfig(cmd *cobra.Command) error {
	if flag := cmd.Flags().Lookup("configYAML"); flag != nil {
		if err := viper.BindPFlag("configYAML", flag); err != nil {
			return err
		}
	}
	configYAML := viper.GetString("configYAML")
	if configYAML == "" {
		return nil
	}
	viper.SetConfigType("yaml")
	viper.SetConfigFile(configYAML)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	return nil
}

// SetGlobalLogger creates a named zap logger from the logging flags.
func SetGlobalLogger(level, format, filePath, name string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	cfg.OutputPaths = []string{"stderr"}
	if filePath != "" {
		cfg.OutputPaths = append(cfg.OutputPaths, filePath)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger.Named(name), nil
}
