package config

import (
	"os"
	"strconv"
	"time"

	"dexadash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Data    DataConfig
	Session SessionConfig
	Log     LogConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// APIConfig holds settings for the stateless JSON API
type APIConfig struct {
	Port string
}

// DataConfig locates the two tabular sources. Both empty selects the
// synthetic demo dataset.
type DataConfig struct {
	ScanSource        string
	CompositionSource string
	FetchTimeout      time.Duration
	DemoPatients      int
	DemoScans         int
}

// Demo reports whether no real source was configured
func (d DataConfig) Demo() bool {
	return d.ScanSource == "" && d.CompositionSource == ""
}

// SessionConfig holds selection-state session settings
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		API:     *loadAPIConfig(),
		Data:    *loadDataConfig(),
		Session: *loadSessionConfig(),
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAPIConfig() *APIConfig {
	return &APIConfig{
		Port: getEnvOrDefault("API_PORT", "8081"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		ScanSource:        getEnvOrDefault("SCAN_SOURCE", ""),
		CompositionSource: getEnvOrDefault("COMPOSITION_SOURCE", ""),
		FetchTimeout:      getEnvDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
		DemoPatients:      getEnvIntOrDefault("DEMO_PATIENTS", 2),
		DemoScans:         getEnvIntOrDefault("DEMO_SCANS", 6),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		CookieName: getEnvOrDefault("SESSION_COOKIE", "dexa_session"),
		TTL:        getEnvDurationOrDefault("SESSION_TTL", 24*time.Hour),
	}
}

func validateConfig(config *Config) error {
	if (config.Data.ScanSource == "") != (config.Data.CompositionSource == "") {
		return errors.ConfigInvalid("SCAN_SOURCE and COMPOSITION_SOURCE must be set together")
	}
	if config.Data.FetchTimeout <= 0 {
		return errors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if config.Data.Demo() && (config.Data.DemoPatients < 1 || config.Data.DemoScans < 1) {
		return errors.ConfigInvalid("DEMO_PATIENTS and DEMO_SCANS must be at least 1")
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	if config.Session.CookieName == "" {
		return errors.ConfigInvalid("SESSION_COOKIE cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
