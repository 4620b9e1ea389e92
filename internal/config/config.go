// Package config loads the settings of the units command from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/stutxo/units"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

type Config struct {
	Denomination units.Denomination // display denomination when none is given
	Log          LogConfig
}

type LogConfig struct {
	Level  zapcore.Level
	Format string // json, console
}

// Load reads the configuration from environment variables.
// Unset variables take their defaults, invalid values are an error.
func Load() (*Config, error) {
	denom, err := units.ParseDenom(getEnv("UNITS_DENOMINATION", "BTC"))
	if err != nil {
		return nil, fmt.Errorf("UNITS_DENOMINATION: %w", err)
	}

	level, err := zapcore.ParseLevel(getEnv("UNITS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("UNITS_LOG_LEVEL: %w", err)
	}

	format := getEnv("UNITS_LOG_FORMAT", FormatConsole)
	switch format {
	case FormatJSON, FormatConsole:
	default:
		return nil, fmt.Errorf("UNITS_LOG_FORMAT: unknown format %q", format)
	}

	return &Config{
		Denomination: denom,
		Log: LogConfig{
			Level:  level,
			Format: format,
		},
	}, nil
}

// NewLogger builds a zap logger, production encoding for json and
// development encoding for console.
func (c *Config) NewLogger() (*zap.Logger, error) {
	var zc zap.Config
	if c.Log.Format == FormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.Log.Level)
	return zc.Build()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
