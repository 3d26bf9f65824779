// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// appDirName is the directory under ~/.config holding the dashboard's files.
const appDirName = "study-dashboard"

// Config holds the application configuration.
type Config struct {
	DatabasePath  string `env:"DATABASE_PATH"`
	StoreBackend  string `env:"STORE_BACKEND" envDefault:"sqlite"`
	StoreFilePath string `env:"STORE_FILE_PATH"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"sdt"`

	FlushInterval           time.Duration `env:"FLUSH_INTERVAL" envDefault:"10s"`
	DurationRefreshInterval time.Duration `env:"DURATION_REFRESH_INTERVAL" envDefault:"60s"`
	DayCheckInterval        time.Duration `env:"DAY_CHECK_INTERVAL" envDefault:"30s"`
	EventRetention          time.Duration `env:"EVENT_RETENTION" envDefault:"2160h"`

	Notifications bool   `env:"NOTIFICATIONS" envDefault:"true"`
	LogPath       string `env:"LOG_PATH"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
}

var validBackends = []string{"sqlite", "file", "redis", "memory"}

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		DatabasePath:  getDefaultDatabasePath(),
		StoreFilePath: getDefaultStoreFilePath(),
		LogPath:       getDefaultLogPath(),
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, path := range []string{cfg.DatabasePath, cfg.StoreFilePath, cfg.LogPath} {
		if err := ensureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if !contains(validBackends, c.StoreBackend) {
		return fmt.Errorf("STORE_BACKEND must be one of %s, got %q",
			strings.Join(validBackends, ", "), c.StoreBackend)
	}

	intervals := map[string]time.Duration{
		"FLUSH_INTERVAL":            c.FlushInterval,
		"DURATION_REFRESH_INTERVAL": c.DurationRefreshInterval,
		"DAY_CHECK_INTERVAL":        c.DayCheckInterval,
		"EVENT_RETENTION":           c.EventRetention,
	}
	for name, d := range intervals {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH must not be empty")
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", appDirName, ".env"),
			filepath.Join(home, ".study-dashboard", ".env"),
		)
	}

	// Parent directory (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(cwd), ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	return defaultPath("study.db")
}

// getDefaultStoreFilePath returns the default path for the JSON file store.
func getDefaultStoreFilePath() string {
	return defaultPath("store.json")
}

func getDefaultLogPath() string {
	return defaultPath("sdt.log")
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".config", appDirName, name)
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
