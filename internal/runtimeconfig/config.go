// Package runtimeconfig holds the module-wide configuration surface and its
// consistency rules.
package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLoggingProviderUnknown = errors.New("templatemark config: logging provider is unknown")
	ErrLoggingLevelInvalid    = errors.New("templatemark config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("templatemark config: logging format is invalid")
	ErrStorageDriverUnknown   = errors.New("templatemark config: storage driver is unknown")
	ErrStorageDSNRequired     = errors.New("templatemark config: storage DSN is required when storage is enabled")
)

// LoggingConfig selects the logger provider wired into the module.
type LoggingConfig struct {
	Provider  string `json:"provider" yaml:"provider"`
	Level     string `json:"level" yaml:"level"`
	Format    string `json:"format" yaml:"format"`
	AddSource bool   `json:"add_source" yaml:"add_source"`
}

// StorageConfig configures the optional conversion archive.
type StorageConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Driver  string `json:"driver" yaml:"driver"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

// ConversionConfig carries defaults applied to conversion runs.
type ConversionConfig struct {
	// WrapVariables keeps converted inline variables inside their tag wrapper.
	WrapVariables bool `json:"wrap_variables" yaml:"wrap_variables"`
}

// Config is the module configuration root.
type Config struct {
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
}

// DefaultConfig returns the configuration used when callers supply nothing.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "console",
		},
		Storage: StorageConfig{
			Enabled: false,
			Driver:  "sqlite",
		},
		Conversion: ConversionConfig{
			WrapVariables: true,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if provider := normalize(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	if cfg.Storage.Enabled {
		if driver := normalize(cfg.Storage.Driver); !isSupportedDriver(driver) {
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "noop", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "postgres":
		return true
	default:
		return false
	}
}
