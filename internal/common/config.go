// Package common provides shared utilities for tradeledger
package common

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for tradeledger
type Config struct {
	Environment string        `toml:"environment"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// StorageConfig holds ledger store configuration.
// Path is the directory holding slot files; Slot names the shared
// ledger slot every session reads and writes.
type StorageConfig struct {
	Path string `toml:"path"`
	Slot string `toml:"slot"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Path: "data",
			Slot: "ledger",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRADELEDGER_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("TRADELEDGER_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if slot := os.Getenv("TRADELEDGER_SLOT"); slot != "" {
		config.Storage.Slot = slot
	}

	if level := os.Getenv("TRADELEDGER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ResolveStoragePath makes a relative storage path absolute against base.
func (c *Config) ResolveStoragePath(base string) {
	if c.Storage.Path != "" && !filepath.IsAbs(c.Storage.Path) {
		c.Storage.Path = filepath.Join(base, c.Storage.Path)
	}
}
