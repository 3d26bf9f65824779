package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME at a temp dir and clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"DATABASE_PATH", "STORE_BACKEND", "STORE_FILE_PATH",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_PREFIX",
		"FLUSH_INTERVAL", "DURATION_REFRESH_INTERVAL", "DAY_CHECK_INTERVAL",
		"NOTIFICATIONS", "LOG_PATH", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	wantDB := filepath.Join(home, ".config", appDirName, "study.db")
	if cfg.DatabasePath != wantDB {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, wantDB)
	}
	if cfg.StoreBackend != "sqlite" {
		t.Errorf("StoreBackend = %q, want sqlite", cfg.StoreBackend)
	}
	if cfg.FlushInterval != 10*time.Second {
		t.Errorf("FlushInterval = %v, want 10s", cfg.FlushInterval)
	}
	if cfg.DurationRefreshInterval != time.Minute {
		t.Errorf("DurationRefreshInterval = %v, want 1m", cfg.DurationRefreshInterval)
	}
	if cfg.DayCheckInterval != 30*time.Second {
		t.Errorf("DayCheckInterval = %v, want 30s", cfg.DayCheckInterval)
	}
	if cfg.EventRetention != 90*24*time.Hour {
		t.Errorf("EventRetention = %v, want 90 days", cfg.EventRetention)
	}
	if !cfg.Notifications {
		t.Error("Notifications should default to true")
	}
	if cfg.RedisPrefix != "sdt" {
		t.Errorf("RedisPrefix = %q, want sdt", cfg.RedisPrefix)
	}

	if _, err := os.Stat(filepath.Dir(wantDB)); err != nil {
		t.Errorf("config directory was not created: %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	t.Setenv("DATABASE_PATH", filepath.Join(dir, "db", "custom.db"))
	t.Setenv("STORE_BACKEND", " Redis ")
	t.Setenv("REDIS_ADDR", "10.0.0.1:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("FLUSH_INTERVAL", "5s")
	t.Setenv("NOTIFICATIONS", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.StoreBackend != "redis" {
		t.Errorf("StoreBackend = %q, want redis", cfg.StoreBackend)
	}
	if cfg.RedisAddr != "10.0.0.1:6380" || cfg.RedisDB != 3 {
		t.Errorf("redis settings = %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.FlushInterval != 5*time.Second {
		t.Errorf("FlushInterval = %v, want 5s", cfg.FlushInterval)
	}
	if cfg.Notifications {
		t.Error("Notifications should be false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Errorf("database directory was not created: %v", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"UnknownBackend", "STORE_BACKEND", "postgres", "STORE_BACKEND"},
		{"ZeroFlush", "FLUSH_INTERVAL", "0s", "FLUSH_INTERVAL"},
		{"NegativeDayCheck", "DAY_CHECK_INTERVAL", "-1s", "DAY_CHECK_INTERVAL"},
		{"ZeroRetention", "EVENT_RETENTION", "0s", "EVENT_RETENTION"},
		{"UnparsableDuration", "DURATION_REFRESH_INTERVAL", "soon", "failed to parse environment"},
		{"UnparsableInt", "REDIS_DB", "zero", "failed to parse environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", appDirName)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("STORE_BACKEND=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("STORE_BACKEND") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("StoreBackend = %q, want file", cfg.StoreBackend)
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetDefaultPaths(t *testing.T) {
	home := isolate(t)

	base := filepath.Join(home, ".config", appDirName)
	if got := getDefaultDatabasePath(); got != filepath.Join(base, "study.db") {
		t.Errorf("getDefaultDatabasePath() = %q", got)
	}
	if got := getDefaultStoreFilePath(); got != filepath.Join(base, "store.json") {
		t.Errorf("getDefaultStoreFilePath() = %q", got)
	}
	if got := getDefaultLogPath(); got != filepath.Join(base, "sdt.log") {
		t.Errorf("getDefaultLogPath() = %q", got)
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	// Basic check that it contains current directory
	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}
