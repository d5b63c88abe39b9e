// Package config loads pipeline and server configuration from a JSON file
// with environment-variable fallbacks.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config configures the server and pipeline.
type Config struct {
	// Server
	Port string `json:"port"`

	// Database
	DatabasePath string `json:"database_path"`

	// Pipeline
	Workers int `json:"workers"`

	// External taxonomy files. Empty means the shipped tables.
	OfficeTablePath string `json:"office_table_path"`
	PartyTablePath  string `json:"party_table_path"`

	// Scraper
	ScrapeTimeout       time.Duration `json:"scrape_timeout"`
	ScrapeRatePerMinute int           `json:"scrape_rate_per_minute"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Load builds the configuration. A config file path takes precedence; any
// field the file leaves zero falls back to the environment, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var file configJSON
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		cfg = file.toConfig()
	}

	applyEnvDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("port %q is not numeric", c.Port)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ScrapeRatePerMinute < 1 {
		return fmt.Errorf("scrape_rate_per_minute must be at least 1, got %d", c.ScrapeRatePerMinute)
	}
	return nil
}

func applyEnvDefaults(cfg *Config) {
	if cfg.Port == "" {
		cfg.Port = getEnv("SERVER_PORT", "8080")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = getEnv("DATABASE_PATH", "candidates.db")
	}
	if cfg.Workers == 0 {
		cfg.Workers = getEnvInt("PIPELINE_WORKERS", 4)
	}
	if cfg.OfficeTablePath == "" {
		cfg.OfficeTablePath = os.Getenv("OFFICE_TABLE_PATH")
	}
	if cfg.PartyTablePath == "" {
		cfg.PartyTablePath = os.Getenv("PARTY_TABLE_PATH")
	}
	if cfg.ScrapeTimeout == 0 {
		cfg.ScrapeTimeout = getEnvDuration("SCRAPE_TIMEOUT", 30*time.Second)
	}
	if cfg.ScrapeRatePerMinute == 0 {
		cfg.ScrapeRatePerMinute = getEnvInt("SCRAPE_RATE_PER_MINUTE", 30)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = getEnv("LOG_LEVEL", "INFO")
	}
}

// configJSON mirrors Config with durations as strings.
type configJSON struct {
	Port                string `json:"port"`
	DatabasePath        string `json:"database_path"`
	Workers             int    `json:"workers"`
	OfficeTablePath     string `json:"office_table_path"`
	PartyTablePath      string `json:"party_table_path"`
	ScrapeTimeout       string `json:"scrape_timeout"`
	ScrapeRatePerMinute int    `json:"scrape_rate_per_minute"`
	LogLevel            string `json:"log_level"`
}

func (f configJSON) toConfig() *Config {
	cfg := &Config{
		Port:                f.Port,
		DatabasePath:        f.DatabasePath,
		Workers:             f.Workers,
		OfficeTablePath:     f.OfficeTablePath,
		PartyTablePath:      f.PartyTablePath,
		ScrapeRatePerMinute: f.ScrapeRatePerMinute,
		LogLevel:            f.LogLevel,
	}
	if f.ScrapeTimeout != "" {
		if d, err := time.ParseDuration(f.ScrapeTimeout); err == nil {
			cfg.ScrapeTimeout = d
		}
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
