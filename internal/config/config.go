// Package config loads the settings of the loam-export CLI.
//
// Sources, lowest precedence first: defaults, a YAML file, a .env file,
// environment variables. Command-line flags are applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/loam-export/pkg/archive"
	"github.com/aretw0/loam-export/pkg/plugin"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "loam-export.yaml"

// Adapters supported by the CLI.
const (
	AdapterFS     = "fs"
	AdapterSQLite = "sqlite"
)

// Environment variables read by Load.
const (
	EnvVault         = "LOAM_EXPORT_VAULT"
	EnvAdapter       = "LOAM_EXPORT_ADAPTER"
	EnvDB            = "LOAM_EXPORT_DB"
	EnvOut           = "LOAM_EXPORT_OUT"
	EnvThreshold     = "LOAM_EXPORT_THRESHOLD"
	EnvArchiveMethod = "LOAM_EXPORT_ARCHIVE_METHOD"
	EnvFlushTrailing = "LOAM_EXPORT_FLUSH_TRAILING"
)

// Config holds all configuration for the CLI.
type Config struct {
	Vault         string `yaml:"vault"`
	Adapter       string `yaml:"adapter"`
	DB            string `yaml:"db"`
	OutputDir     string `yaml:"out"`
	Threshold     int    `yaml:"threshold"`
	ArchiveMethod string `yaml:"archive_method"`
	FlushTrailing bool   `yaml:"flush_trailing"`
	ReadOnly      bool   `yaml:"read_only"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Vault:         ".",
		Adapter:       AdapterFS,
		DB:            "notes.db",
		OutputDir:     ".",
		Threshold:     plugin.DefaultCSVThreshold,
		ArchiveMethod: archive.MethodDeflate,
	}
}

// Load builds the configuration. path names a YAML file; when empty,
// DefaultFile is used if present. A .env file in the working directory is
// loaded without overriding variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	_ = godotenv.Load() // optional

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Vault = getEnv(EnvVault, c.Vault)
	c.Adapter = getEnv(EnvAdapter, c.Adapter)
	c.DB = getEnv(EnvDB, c.DB)
	c.OutputDir = getEnv(EnvOut, c.OutputDir)
	c.ArchiveMethod = getEnv(EnvArchiveMethod, c.ArchiveMethod)

	if v := os.Getenv(EnvThreshold); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s must be a valid integer: %w", EnvThreshold, err)
		}
		c.Threshold = n
	}
	if v := os.Getenv(EnvFlushTrailing); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", EnvFlushTrailing, err)
		}
		c.FlushTrailing = b
	}
	return nil
}

// Validate checks the configuration for values the CLI cannot run with.
func (c *Config) Validate() error {
	c.Adapter = strings.ToLower(strings.TrimSpace(c.Adapter))
	switch c.Adapter {
	case AdapterFS:
		if c.Vault == "" {
			return errors.New("vault path is required for the fs adapter")
		}
	case AdapterSQLite:
		if c.DB == "" {
			return errors.New("database path is required for the sqlite adapter")
		}
	default:
		return fmt.Errorf("unknown adapter %q (expected %s or %s)", c.Adapter, AdapterFS, AdapterSQLite)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be greater than 0, got %d", c.Threshold)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	return nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
