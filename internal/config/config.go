// Package config holds all storefront configuration.
// Configuration is read from ~/.storefront/config.yaml (or an explicit
// path), then overridden by STOREFRONT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	// Commerce API
	API APIConfig `yaml:"api"`

	// Payment provider
	Payments PaymentsConfig `yaml:"payments"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Interactive UI
	UX UXConfig `yaml:"ux"`
}

// APIConfig configures the commerce API client.
type APIConfig struct {
	// BaseURL is the versioned API root, e.g. https://shop.example.com/api/v1
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`

	// CacheTTL controls how long read queries stay fresh.
	CacheTTL string `yaml:"cache_ttl"`
}

// PaymentsConfig configures the payment provider client.
type PaymentsConfig struct {
	// PublishableKey is the provider's public key. Never the secret key;
	// the client only tokenizes and confirms.
	PublishableKey string `yaml:"publishable_key"`
	ProviderURL    string `yaml:"provider_url"`
	Currency       string `yaml:"currency"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	File   string `yaml:"file"`   // empty = stderr
}

// UXConfig configures the interactive UI.
type UXConfig struct {
	Theme    string `yaml:"theme"` // light, dark, auto
	PageSize int    `yaml:"page_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:  "http://localhost:8000/api/v1",
			Timeout:  "30s",
			CacheTTL: "60s",
		},
		Payments: PaymentsConfig{
			ProviderURL: "https://api.stripe.com/v1",
			Currency:    "usd",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		UX: UXConfig{
			Theme:    "auto",
			PageSize: 20,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".storefront", "config.yaml"), nil
}

// Load reads configuration from path. A missing file is not an error:
// defaults plus environment overrides are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with STOREFRONT_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("STOREFRONT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_API_TIMEOUT"); v != "" {
		c.API.Timeout = v
	}
	if v := os.Getenv("STOREFRONT_PUBLISHABLE_KEY"); v != "" {
		c.Payments.PublishableKey = v
	}
	if v := os.Getenv("STOREFRONT_PROVIDER_URL"); v != "" {
		c.Payments.ProviderURL = v
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("api.timeout %q: %w", c.API.Timeout, err)
	}
	if _, err := time.ParseDuration(c.API.CacheTTL); err != nil {
		return fmt.Errorf("api.cache_ttl %q: %w", c.API.CacheTTL, err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: must be debug, info, warn or error", c.Logging.Level)
	}
	if c.UX.PageSize <= 0 {
		return fmt.Errorf("ux.page_size must be positive")
	}
	return nil
}

// APITimeout returns the parsed API timeout.
func (c *Config) APITimeout() time.Duration {
	d, _ := time.ParseDuration(c.API.Timeout)
	return d
}

// CacheTTL returns the parsed read-cache TTL.
func (c *Config) CacheTTL() time.Duration {
	d, _ := time.ParseDuration(c.API.CacheTTL)
	return d
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
