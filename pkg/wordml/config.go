package wordml

import (
	"errors"
	"os"
	"sync"
)

// Config contains all configuration options for the wordml engine
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Author is the tracked-change author identity. When empty, the current
	// OS user is resolved on first use; failure to resolve falls back to an
	// author-less marker rather than failing the edit.
	Author string
	// StrictMode turns best-effort merge degradations (skipped dangling
	// references) into hard errors.
	StrictMode bool
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func init() {
	// Initialize global config from environment on first use
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		Author:     "",
		StrictMode: false,
	}
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	// WORDML_LOG_LEVEL
	if val := os.Getenv("WORDML_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	// WORDML_AUTHOR
	if val := os.Getenv("WORDML_AUTHOR"); val != "" {
		config.Author = val
	}

	// WORDML_STRICT_MODE
	if val := os.Getenv("WORDML_STRICT_MODE"); val != "" {
		config.StrictMode = parseBool(val)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"off":   true,
	}

	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}

// GetGlobalConfig returns the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	return globalConfig
}

// SetGlobalConfig replaces the global configuration
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	defer globalConfigMutex.Unlock()
	globalConfig = config
}

func parseBool(val string) bool {
	switch val {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}
