package app

import (
	"errors"
	"fmt"
	"slices"
)

var (
	logFormats = []string{"text", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // HCL or YAML file, or a directory of them

	LogFormat string
	LogLevel  string

	// Strict rejects unknown keys in every record, not only in records that
	// opt in themselves.
	Strict bool
	// CheckedNumbers rejects fractional or out of range numbers for integer
	// fields instead of truncating them.
	CheckedNumbers bool
	// Dump prints the decoded configuration as YAML.
	Dump bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	return &cfg, nil
}
