package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SCOLARY_API_URL", "http://localhost:8000/api/v1")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scolary.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
api:
  base_url: "https://scolary.example.mg/api/v1"
  timeout: "5s"

storage:
  path: "/tmp/scolary-test.db"

log:
  level: "debug"
  format: "json"

pagination:
  default_page_size: 25
  max_page_size: 200

notify:
  reconnect_delay: "2s"
`

func validConfig() *Config {
	return &Config{
		API:        APIConfig{BaseURL: "http://localhost:8000", Timeout: 10 * time.Second},
		Storage:    StorageConfig{Path: "./scolary.db"},
		Log:        LogConfig{Level: "info", Format: "text"},
		Pagination: PaginationConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Notify:     NotifyConfig{ReconnectDelay: 5 * time.Second},
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "https://scolary.example.mg/api/v1" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("api.timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Storage.Path != "/tmp/scolary-test.db" {
		t.Errorf("storage.path = %q", cfg.Storage.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
	if cfg.Pagination.DefaultPageSize != 25 || cfg.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination = %+v", cfg.Pagination)
	}
	if cfg.Notify.ReconnectDelay != 2*time.Second {
		t.Errorf("notify.reconnect_delay = %v, want 2s", cfg.Notify.ReconnectDelay)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SCOLARY_PAGE_SIZE", "50")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Pagination.DefaultPageSize != 50 {
		t.Errorf("pagination.default_page_size = %d, want 50 (ENV override)", cfg.Pagination.DefaultPageSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("api.timeout = %v, want 15s (default)", cfg.API.Timeout)
	}
	if cfg.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination.default_page_size = %d, want 10 (default)", cfg.Pagination.DefaultPageSize)
	}
	if cfg.Notify.ReconnectDelay != 5*time.Second {
		t.Errorf("notify.reconnect_delay = %v, want 5s (default)", cfg.Notify.ReconnectDelay)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SCOLARY_API_URL", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected error when SCOLARY_API_URL is missing")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/scolary.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"bad ws scheme", func(c *Config) { c.API.WSURL = "http://host/ws" }},
		{"empty storage", func(c *Config) { c.Storage.Path = " " }},
		{"zero page size", func(c *Config) { c.Pagination.DefaultPageSize = 0 }},
		{"max below default", func(c *Config) { c.Pagination.MaxPageSize = 5 }},
		{"zero reconnect", func(c *Config) { c.Notify.ReconnectDelay = 0 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
