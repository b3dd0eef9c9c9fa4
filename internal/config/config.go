// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Cache   CacheConfig   `mapstructure:"cache"`
	Styles  StylesConfig  `mapstructure:"styles"`
	Network NetworkConfig `mapstructure:"network"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// CacheConfig contains tile cache configuration
type CacheConfig struct {
	Directory  string `mapstructure:"directory"`
	Redownload bool   `mapstructure:"redownload"`
}

// StylesConfig locates the external style table
type StylesConfig struct {
	Path string `mapstructure:"path"`
}

// NetworkConfig contains network-related configuration
type NetworkConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// OutputConfig contains output artifact configuration
type OutputConfig struct {
	Directory string `mapstructure:"directory"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults configures default values for all configuration options
func setDefaults() {
	viper.SetDefault("cache.directory", "tiles")
	viper.SetDefault("cache.redownload", false)

	viper.SetDefault("styles.path", "tilemaps.csv")

	viper.SetDefault("network.user_agent", "")
	viper.SetDefault("network.timeout", 30*time.Second)

	viper.SetDefault("output.directory", "output")

	viper.SetDefault("logging.verbose", false)
}
