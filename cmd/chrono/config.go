package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds demo-binary settings.
//
// Precedence: CHRONO_* environment variables > compiled defaults.
type Config struct {
	Log       LogConfig       `koanf:"log"`
	Tick      TickConfig      `koanf:"tick"`
	Stopwatch StopwatchConfig `koanf:"stopwatch"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// TickConfig controls the live clock tick stream.
type TickConfig struct {
	Interval time.Duration `koanf:"interval"`
	Buffer   int           `koanf:"buffer"`
}

// StopwatchConfig controls the stopwatch view.
type StopwatchConfig struct {
	Resolution time.Duration `koanf:"resolution"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

func defaults() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Tick: TickConfig{
			Interval: 250 * time.Millisecond,
			Buffer:   16,
		},
		Stopwatch: StopwatchConfig{
			Resolution: 50 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9184",
		},
	}
}

// loadConfig loads defaults overridden by CHRONO_* environment
// variables (CHRONO_TICK_INTERVAL maps to tick.interval, and so on).
func loadConfig() (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	err := k.Load(env.Provider("CHRONO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CHRONO_")
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Tick.Interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %v", c.Tick.Interval)
	}
	if c.Tick.Buffer <= 0 {
		return fmt.Errorf("tick buffer must be positive, got %d", c.Tick.Buffer)
	}
	if c.Stopwatch.Resolution <= 0 {
		return fmt.Errorf("stopwatch resolution must be positive, got %v", c.Stopwatch.Resolution)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("metrics enabled but no listen address configured")
	}
	return nil
}
