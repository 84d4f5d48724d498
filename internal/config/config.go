// Package config loads application configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Library  LibraryConfig  `mapstructure:"library"`
	LazyLoad LazyLoadConfig `mapstructure:"lazyload"`
	API      APIConfig      `mapstructure:"api"`
	UI       UIConfig       `mapstructure:"ui"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// LibraryConfig points at the media library source
type LibraryConfig struct {
	Path string `mapstructure:"path"` // JSON library file; empty = bundled sample
}

// LazyLoadConfig tunes the artwork lazy loader
type LazyLoadConfig struct {
	ProximityMargin     int     `mapstructure:"proximity_margin"`     // rows of pre-fetch around the viewport
	VisibilityThreshold float64 `mapstructure:"visibility_threshold"` // fraction of a cell that must be visible
	RetryCount          int     `mapstructure:"retry_count"`          // retries after the first failed attempt
	RetryDelayMS        int     `mapstructure:"retry_delay_ms"`       // base backoff delay
	PollIntervalMS      int     `mapstructure:"poll_interval_ms"`     // sampling rate of the polling fallback
	Placeholder         string  `mapstructure:"placeholder"`          // glyph shown while idle/loading
	ErrorAsset          string  `mapstructure:"error_asset"`          // glyph shown on terminal error
	Eager               bool    `mapstructure:"eager"`                // load everything up front, ignoring visibility
}

// RetryDelay returns the base backoff delay as a duration.
func (c LazyLoadConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// PollInterval returns the fallback sampling interval as a duration.
func (c LazyLoadConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// APIConfig holds the profile HTTP API configuration
type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultView string `mapstructure:"default_view"`
}

// CacheConfig holds the artwork store configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty = memory-only, nothing persisted
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{},
		LazyLoad: LazyLoadConfig{
			ProximityMargin:     2,
			VisibilityThreshold: 0.1,
			RetryCount:          3,
			RetryDelayMS:        1000,
			PollIntervalMS:      200,
			Placeholder:         "·",
			ErrorAsset:          "✗",
		},
		API: APIConfig{
			Enabled: false,
			Addr:    "127.0.0.1:7474",
		},
		UI: UIConfig{
			DefaultView: "gallery",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vitrine", "vitrine.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vitrine", "vitrine.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "vitrine")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "vitrine")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "vitrine", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "vitrine", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("VITRINE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
