package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the tools. All fields have working defaults;
// a yaml file and a couple of environment variables can override them.
type Config struct {
	Port               string `yaml:"port"`
	LogLevel           string `yaml:"log_level"`
	HTTPTimeoutSeconds int    `yaml:"http_timeout_seconds"`

	Nasdaq   NasdaqConfig   `yaml:"nasdaq"`
	Yahoo    YahooConfig    `yaml:"yahoo"`
	AppStore AppStoreConfig `yaml:"app_store"`
}

type NasdaqConfig struct {
	BaseURL string `yaml:"base_url"`

	// SymbolKeys is the ordered list of symbol-like field names checked
	// before the exhaustive fallback scan of all string fields.
	SymbolKeys []string `yaml:"symbol_keys"`

	// ExpirationKeys lists the payload locations that may hold the
	// expirations list; Nasdaq has moved it between shapes before.
	ExpirationKeys []string `yaml:"expiration_keys"`

	// ExpirationParams lists the query-parameter spellings tried for
	// "expiration" during the fallback sweep. The accepted name is
	// undocumented upstream, so all of them are attempted in order.
	ExpirationParams []string `yaml:"expiration_params"`
}

type YahooConfig struct {
	BaseURL string `yaml:"base_url"`
}

type AppStoreConfig struct {
	BaseURL    string `yaml:"base_url"`
	Storefront string `yaml:"storefront"`
	PageLimit  int    `yaml:"page_limit"`
}

func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:               "3000",
		LogLevel:           "info",
		HTTPTimeoutSeconds: 25,
		Nasdaq: NasdaqConfig{
			BaseURL:          "https://api.nasdaq.com",
			SymbolKeys:       []string{"optionSymbol", "symbol", "contractSymbol", "displaySymbol"},
			ExpirationKeys:   []string{"expirations", "expirationDates", "dates", "expirationDateList"},
			ExpirationParams: []string{"expirationdate", "expirationDate", "expiryDate", "date", "expiration"},
		},
		Yahoo: YahooConfig{
			BaseURL: "https://query1.finance.yahoo.com",
		},
		AppStore: AppStoreConfig{
			BaseURL:    "https://itunes.apple.com",
			Storefront: "us",
			PageLimit:  50,
		},
	}
}

// Load builds the configuration from defaults, an optional yaml file and
// environment overrides, in that order. An empty path skips the file step.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: failed to read %s: %w", path, err)
		}

		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config.Load: failed to parse %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("config: http_timeout_seconds must be positive, got %d", c.HTTPTimeoutSeconds)
	}
	if c.AppStore.PageLimit <= 0 {
		return fmt.Errorf("config: app_store.page_limit must be positive, got %d", c.AppStore.PageLimit)
	}
	if len(c.Nasdaq.ExpirationParams) == 0 {
		return fmt.Errorf("config: nasdaq.expiration_params must not be empty")
	}

	return nil
}
