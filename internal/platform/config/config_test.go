package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseEnvironment_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseEnvironment(map[string]string{})
	if err != nil {
		t.Fatalf("ParseEnvironment err=%v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Storage.Backend != StorageMemory {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Directory.Debounce != 200*time.Millisecond || cfg.Directory.MinLoading != 500*time.Millisecond {
		t.Fatalf("directory=%+v", cfg.Directory)
	}
	if cfg.Search.ExtendedFields || cfg.Search.MaxTermLength != 256 {
		t.Fatalf("search=%+v", cfg.Search)
	}
	if cfg.Redis.URL != "" {
		t.Fatalf("expected cache disabled by default")
	}
}

func TestParseEnvironment_Overrides(t *testing.T) {
	t.Parallel()

	cfg, err := ParseEnvironment(map[string]string{
		"STORAGE_BACKEND":        "postgres",
		"DATABASE_URL":           "postgres://u:p@localhost:5432/db",
		"DATABASE_QUERY_TIMEOUT": "2s",
		"SEARCH_EXTENDED_FIELDS": "true",
		"DIRECTORY_STRATEGY":     "client",
		"REDIS_URL":              "redis://localhost:6379/0",
		"REDIS_TTL":              "1m",
	})
	if err != nil {
		t.Fatalf("ParseEnvironment err=%v", err)
	}
	if cfg.Database.QueryTimeout != 2*time.Second || !cfg.Search.ExtendedFields || cfg.Directory.Strategy != StrategyClient {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Redis.TTL != time.Minute {
		t.Fatalf("redis ttl=%v", cfg.Redis.TTL)
	}
}

func TestParseEnvironment_Invalid(t *testing.T) {
	t.Parallel()

	cases := []map[string]string{
		{"STORAGE_BACKEND": "postgres"},
		{"STORAGE_BACKEND": "sqlite"},
		{"DIRECTORY_STRATEGY": "hybrid"},
		{"DIRECTORY_DEBOUNCE": "soon"},
		{"SEARCH_MAX_TERM_LENGTH": "-1"},
	}
	for _, vars := range cases {
		if _, err := ParseEnvironment(vars); err == nil {
			t.Fatalf("ParseEnvironment(%v) expected error", vars)
		}
	}
}

func TestLoadConfig_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("SERVER_PORT=9191\nLOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("SERVER_PORT", "")
	os.Unsetenv("SERVER_PORT")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig err=%v", err)
	}
	if cfg.Server.Port != "9191" {
		t.Fatalf("port=%q, want value from file", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("log level=%q, want environment to win", cfg.Log.Level)
	}
}
