package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("unexpected base url %q", cfg.API.BaseURL)
	}
	if cfg.Payments.Currency != "usd" {
		t.Errorf("unexpected currency %q", cfg.Payments.Currency)
	}
	if cfg.UX.PageSize != 20 {
		t.Errorf("unexpected page size %d", cfg.UX.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://shop.example.com/api/v1"
	cfg.Payments.PublishableKey = "pk_test_abc"
	cfg.UX.Theme = "light"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.API.BaseURL != "https://shop.example.com/api/v1" {
		t.Errorf("unexpected base url %q", loaded.API.BaseURL)
	}
	if loaded.Payments.PublishableKey != "pk_test_abc" {
		t.Errorf("unexpected key %q", loaded.Payments.PublishableKey)
	}
	if loaded.UX.Theme != "light" {
		t.Errorf("unexpected theme %q", loaded.UX.Theme)
	}
}

func TestConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != DefaultConfig().API.BaseURL {
		t.Errorf("expected defaults, got %q", cfg.API.BaseURL)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STOREFRONT_API_URL", "https://env.example.com/api/v1")
	t.Setenv("STOREFRONT_PUBLISHABLE_KEY", "pk_env")
	t.Setenv("STOREFRONT_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com/api/v1" {
		t.Errorf("env must override base url, got %q", cfg.API.BaseURL)
	}
	if cfg.Payments.PublishableKey != "pk_env" {
		t.Errorf("env must set publishable key, got %q", cfg.Payments.PublishableKey)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("env must set log level, got %q", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"bad cache ttl", func(c *Config) { c.API.CacheTTL = "-" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"zero page size", func(c *Config) { c.UX.PageSize = 0 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestConfig_ParsedDurations(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "45s"
	cfg.API.CacheTTL = "2m"
	if cfg.APITimeout() != 45*time.Second {
		t.Errorf("unexpected timeout %v", cfg.APITimeout())
	}
	if cfg.CacheTTL() != 2*time.Minute {
		t.Errorf("unexpected ttl %v", cfg.CacheTTL())
	}
}

func TestConfig_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\t- not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparsable config")
	}
}
