// Package config loads the application configuration from an optional YAML
// file with environment overrides.
//
// Precedence, lowest to highest: built-in defaults, YAML file, environment
// variables. A .env file in the working directory is loaded into the
// environment first when present (ok if missing).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds storage locations and defaults for the doorstep core.
type Config struct {
	// DataDir is the base directory for all store files. Paths below
	// default to files inside it when left empty.
	DataDir string `yaml:"data_dir"`

	// RecordsPath is the record graph store snapshot file.
	RecordsPath string `yaml:"records_path"`

	// UsersPath is the identity store snapshot file.
	UsersPath string `yaml:"users_path"`

	// MirrorPath is the SQLite relational mirror database file.
	MirrorPath string `yaml:"mirror_path"`

	// DefaultList is the list assigned to prospects created by a knock at
	// an unseen address.
	DefaultList string `yaml:"default_list"`
}

// Environment variable overrides.
const (
	EnvDataDir = "DOORSTEP_DATA_DIR"
	EnvRecords = "DOORSTEP_RECORDS_PATH"
	EnvUsers   = "DOORSTEP_USERS_PATH"
	EnvMirror  = "DOORSTEP_MIRROR_PATH"
)

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment apply; a named file that does not exist is
// an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load() // load .env if present (ok if missing)

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvRecords); v != "" {
		cfg.RecordsPath = v
	}
	if v := os.Getenv(EnvUsers); v != "" {
		cfg.UsersPath = v
	}
	if v := os.Getenv(EnvMirror); v != "" {
		cfg.MirrorPath = v
	}

	cfg.fillDerived()
	return cfg, nil
}

// EnsureDataDir creates the data directory when any of the store paths live
// inside it.
func (c Config) EnsureDataDir() error {
	if c.DataDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

func defaults() Config {
	dataDir := ".doorstep"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".doorstep")
	}
	return Config{
		DataDir:     dataDir,
		DefaultList: "Prospects",
	}
}

// fillDerived resolves empty store paths against the data directory.
func (c *Config) fillDerived() {
	if c.RecordsPath == "" {
		c.RecordsPath = filepath.Join(c.DataDir, "records.json")
	}
	if c.UsersPath == "" {
		c.UsersPath = filepath.Join(c.DataDir, "users.json")
	}
	if c.MirrorPath == "" {
		c.MirrorPath = filepath.Join(c.DataDir, "mirror.db")
	}
}
