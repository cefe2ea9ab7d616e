// Package config loads the chores configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // timezone names resolve without system zoneinfo

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all settings. Empty paths fall back to the data directory
// at runtime.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Backup   BackupConfig   `yaml:"backup"`
	// Timezone is an IANA name; empty means the system zone.
	Timezone string `yaml:"timezone,omitempty"`
}

// DatabaseConfig configures the shared store
type DatabaseConfig struct {
	Path         string `yaml:"path,omitempty"`
	Watch        bool   `yaml:"watch"`
	HistoryLimit int    `yaml:"history_limit"`
}

// LogConfig configures the log file
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// BackupConfig configures the local side of upload/download
type BackupConfig struct {
	LocalPath string `yaml:"local_path,omitempty"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Watch:        true,
			HistoryLimit: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/chores/config.yaml
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "chores", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("CHORES_DB"); path != "" {
		c.Database.Path = path
	}
	if level := os.Getenv("CHORES_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if tz := os.Getenv("CHORES_TZ"); tz != "" {
		c.Timezone = tz
	}
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	if c.Database.HistoryLimit <= 0 {
		return fmt.Errorf("database.history_limit must be positive, got %d", c.Database.HistoryLimit)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses log.level
func (c *Config) LogLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Location resolves the configured time zone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}
