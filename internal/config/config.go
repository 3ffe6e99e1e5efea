// Package config carries the settings shared by the command line tools.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds ingestion settings for the cmd tools.
type Config struct {
	// CSVDelimiter is the field separator for CSV inventories.
	CSVDelimiter string `json:"csv_delimiter"`
	// Encoding is the expected input encoding ("utf-8" or "windows-1252").
	Encoding string `json:"encoding"`
	// MaxRowErrors aborts an ingest after this many bad rows.
	MaxRowErrors int `json:"max_row_errors"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CSVDelimiter: ",",
		Encoding:     "utf-8",
		MaxRowErrors: 100,
		LogLevel:     "info",
	}
}

// LoadConfig builds the configuration from defaults, an optional JSON file,
// and CARDINDEX_* environment variable overrides, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if v := os.Getenv("CARDINDEX_CSV_DELIMITER"); v != "" {
		cfg.CSVDelimiter = v
	}
	if v := os.Getenv("CARDINDEX_ENCODING"); v != "" {
		cfg.Encoding = v
	}
	if v := os.Getenv("CARDINDEX_MAX_ROW_ERRORS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CARDINDEX_MAX_ROW_ERRORS %q: %w", v, err)
		}
		cfg.MaxRowErrors = n
	}
	if v := os.Getenv("CARDINDEX_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the ingest layer cannot use.
func (c *Config) Validate() error {
	if len([]rune(c.CSVDelimiter)) != 1 {
		return fmt.Errorf("csv_delimiter must be a single character, got %q", c.CSVDelimiter)
	}
	if c.MaxRowErrors <= 0 {
		return fmt.Errorf("max_row_errors must be positive, got %d", c.MaxRowErrors)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	return []rune(c.CSVDelimiter)[0]
}
