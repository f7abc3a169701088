package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Collection file configuration
	Collection CollectionConfig `toml:"collection"`

	// Card catalog (Scryfall) configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Price resolution configuration
	Pricing PricingConfig `toml:"pricing"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// CollectionConfig contains collection file settings.
type CollectionConfig struct {
	FilePath     string `toml:"file_path"`     // Path to the ManaBox CSV export
	Watch        bool   `toml:"watch"`         // Reload on file changes
	PollInterval string `toml:"poll_interval"` // Fallback polling interval (e.g., "30s")
}

// ScryfallConfig contains card catalog client settings.
type ScryfallConfig struct {
	BaseURL string `toml:"base_url"` // Override API base URL (empty = default)
}

// PricingConfig contains price resolver settings.
type PricingConfig struct {
	MaxConcurrent int    `toml:"max_concurrent"` // Concurrent price lookups
	LookupTimeout string `toml:"lookup_timeout"` // Per-lookup timeout (e.g., "10s")
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Collection: CollectionConfig{
			FilePath:     "",
			Watch:        true,
			PollInterval: "30s",
		},
		Scryfall: ScryfallConfig{
			BaseURL: "",
		},
		Pricing: PricingConfig{
			MaxConcurrent: 8,
			LookupTimeout: "10s",
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// configPath returns the path to the configuration file.
func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".mtg-agent")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk. Returns default config if file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Collection.PollInterval); err != nil {
		return fmt.Errorf("invalid poll interval %q: %w", c.Collection.PollInterval, err)
	}

	if _, err := time.ParseDuration(c.Pricing.LookupTimeout); err != nil {
		return fmt.Errorf("invalid lookup timeout %q: %w", c.Pricing.LookupTimeout, err)
	}

	if c.Pricing.MaxConcurrent < 0 {
		return fmt.Errorf("max concurrent lookups cannot be negative: %d", c.Pricing.MaxConcurrent)
	}

	return nil
}

// GetPollInterval returns the collection poll interval as a duration.
func (c *Config) GetPollInterval() (time.Duration, error) {
	return time.ParseDuration(c.Collection.PollInterval)
}

// GetLookupTimeout returns the price lookup timeout as a duration.
func (c *Config) GetLookupTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Pricing.LookupTimeout)
}
