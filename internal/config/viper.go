// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/PeterGeers/myAdmin-sub014/internal/logging"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Database struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"database" yaml:"database"`

	Registry struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"registry" yaml:"registry"`

	Cache struct {
		Capacity int `mapstructure:"capacity" yaml:"capacity"`
		TTLHours int `mapstructure:"ttl_hours" yaml:"ttl_hours"`
	} `mapstructure:"cache" yaml:"cache"`

	Analyzer struct {
		LookbackYears int `mapstructure:"lookback_years" yaml:"lookback_years"`
	} `mapstructure:"analyzer" yaml:"analyzer"`

	Duplicate struct {
		LookbackYears  int `mapstructure:"lookback_years" yaml:"lookback_years"`
		TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"duplicate" yaml:"duplicate"`
}

// CacheTTL returns the configured cache freshness window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// DuplicateTimeout returns the configured duplicate check budget as a duration.
func (c *Config) DuplicateTimeout() time.Duration {
	return time.Duration(c.Duplicate.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.myadmin")
	v.AddConfigPath(".myadmin")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("MYADMIN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
		// Config file not found or invalid is OK, we'll use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Storage defaults
	v.SetDefault("database.path", "myadmin.db")
	v.SetDefault("registry.file", "")

	// Pattern cache defaults
	v.SetDefault("cache.capacity", 1000)
	v.SetDefault("cache.ttl_hours", 24)

	// Pattern analysis defaults
	v.SetDefault("analyzer.lookback_years", 2)

	// Duplicate check defaults
	v.SetDefault("duplicate.lookback_years", 2)
	v.SetDefault("duplicate.timeout_seconds", 2)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if config.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be at least 1, got: %d", config.Cache.Capacity)
	}
	if config.Cache.TTLHours < 1 {
		return fmt.Errorf("cache.ttl_hours must be at least 1, got: %d", config.Cache.TTLHours)
	}

	if config.Analyzer.LookbackYears < 1 {
		return fmt.Errorf("analyzer.lookback_years must be at least 1, got: %d", config.Analyzer.LookbackYears)
	}

	if config.Duplicate.LookbackYears < 1 {
		return fmt.Errorf("duplicate.lookback_years must be at least 1, got: %d", config.Duplicate.LookbackYears)
	}
	if config.Duplicate.TimeoutSeconds < 1 || config.Duplicate.TimeoutSeconds > 300 {
		return fmt.Errorf("duplicate.timeout_seconds must be between 1 and 300, got: %d", config.Duplicate.TimeoutSeconds)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from the Config struct
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
