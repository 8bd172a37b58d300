// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when neither the config file nor flags set a value.
const (
	DefaultPort            = 8080
	DefaultHorizonDays     = 30
	DefaultGraceWindowDays = 30
	DefaultFrequencyDays   = 90
)

// Config represents the server configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must
// be provided via environment/CLI flags.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	LogLevel    string `json:"log_level,omitempty"`    // zerolog level name

	// Scheduling
	HorizonDays     int `json:"horizon_days,omitempty"`      // upcoming projection window
	GraceWindowDays int `json:"grace_window_days,omitempty"` // how far past due still schedules
	FrequencyDays   int `json:"frequency_days,omitempty"`    // default evaluation cadence
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be 0-65535")
	}
	if c.HorizonDays < 0 {
		return fmt.Errorf("config error: 'horizon_days' must be non-negative")
	}
	if c.GraceWindowDays < 0 {
		return fmt.Errorf("config error: 'grace_window_days' must be non-negative")
	}
	if c.FrequencyDays < 0 {
		return fmt.Errorf("config error: 'frequency_days' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults, then from the package-level fallbacks.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}

	if result.HorizonDays == 0 {
		result.HorizonDays = defaults.HorizonDays
	}
	if result.HorizonDays == 0 {
		result.HorizonDays = DefaultHorizonDays
	}

	if result.GraceWindowDays == 0 {
		result.GraceWindowDays = defaults.GraceWindowDays
	}
	if result.GraceWindowDays == 0 {
		result.GraceWindowDays = DefaultGraceWindowDays
	}

	if result.FrequencyDays == 0 {
		result.FrequencyDays = defaults.FrequencyDays
	}
	if result.FrequencyDays == 0 {
		result.FrequencyDays = DefaultFrequencyDays
	}

	return result
}
