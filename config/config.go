/*
Package config loads server configuration from a TOML file.

A missing file yields the defaults, so the server runs with zero
configuration. Command-line flags in cmd/server override the file.
*/
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all tracker configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Planner  PlannerConfig  `toml:"planner"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// PlannerConfig holds look-ahead and sweep settings.
type PlannerConfig struct {
	DefaultDays          int  `toml:"default_days"`
	SweepEnabled         bool `toml:"sweep_enabled"`
	SweepIntervalMinutes int  `toml:"sweep_interval_minutes"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "tracker.db",
		},
		Planner: PlannerConfig{
			DefaultDays:          60,
			SweepEnabled:         true,
			SweepIntervalMinutes: 60,
		},
	}
}

// Load reads the config file at path, returning defaults if it doesn't exist.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
