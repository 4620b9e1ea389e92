package config

import (
	"errors"
	"testing"

	"github.com/stutxo/units"
	"go.uber.org/zap/zapcore"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("UNITS_DENOMINATION", "")
		t.Setenv("UNITS_LOG_LEVEL", "")
		t.Setenv("UNITS_LOG_FORMAT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Denomination != units.BTC {
			t.Errorf("Denomination = %v, want %v", cfg.Denomination, units.BTC)
		}
		if cfg.Log.Level != zapcore.InfoLevel {
			t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, zapcore.InfoLevel)
		}
		if cfg.Log.Format != FormatConsole {
			t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, FormatConsole)
		}
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("UNITS_DENOMINATION", "sat")
		t.Setenv("UNITS_LOG_LEVEL", "debug")
		t.Setenv("UNITS_LOG_FORMAT", "json")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Denomination != units.Sat {
			t.Errorf("Denomination = %v, want %v", cfg.Denomination, units.Sat)
		}
		if cfg.Log.Level != zapcore.DebugLevel {
			t.Errorf("Log.Level = %v, want %v", cfg.Log.Level, zapcore.DebugLevel)
		}
		if cfg.Log.Format != FormatJSON {
			t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, FormatJSON)
		}
		logger, err := cfg.NewLogger()
		if err != nil {
			t.Fatalf("NewLogger() failed: %v", err)
		}
		if !logger.Core().Enabled(zapcore.DebugLevel) {
			t.Errorf("NewLogger() does not log at %v", zapcore.DebugLevel)
		}
	})

	t.Run("error", func(t *testing.T) {
		tests := map[string]map[string]string{
			"denomination": {"UNITS_DENOMINATION": "btc"},
			"level":        {"UNITS_LOG_LEVEL": "loud"},
			"format":       {"UNITS_LOG_FORMAT": "xml"},
		}
		for name, env := range tests {
			t.Run(name, func(t *testing.T) {
				t.Setenv("UNITS_DENOMINATION", "")
				t.Setenv("UNITS_LOG_LEVEL", "")
				t.Setenv("UNITS_LOG_FORMAT", "")
				for k, v := range env {
					t.Setenv(k, v)
				}
				_, err := Load()
				if err == nil {
					t.Errorf("Load() with %v did not fail", env)
				}
				if name == "denomination" && !errors.Is(err, units.ErrUnknownDenomination) {
					t.Errorf("Load() with %v = %v, want %v", env, err, units.ErrUnknownDenomination)
				}
			})
		}
	})
}
