// internal/config/validation.go - Configuration validation
package config

import "fmt"

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateCache(&config.Cache); err != nil {
		return fmt.Errorf("cache configuration invalid: %w", err)
	}

	if err := validateStyles(&config.Styles); err != nil {
		return fmt.Errorf("styles configuration invalid: %w", err)
	}

	if err := validateNetwork(&config.Network); err != nil {
		return fmt.Errorf("network configuration invalid: %w", err)
	}

	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	return nil
}

// validateCache validates cache configuration parameters
func validateCache(config *CacheConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	return nil
}

// validateStyles validates style table configuration parameters
func validateStyles(config *StylesConfig) error {
	if config.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// validateNetwork validates network configuration parameters
func validateNetwork(config *NetworkConfig) error {
	if config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// validateOutput validates output configuration parameters
func validateOutput(config *OutputConfig) error {
	if config.Directory == "" {
		return fmt.Errorf("directory is required")
	}
	return nil
}
