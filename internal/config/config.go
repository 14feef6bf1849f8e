package config

import (
	"os"
	"strconv"
	"time"

	"cardiodash/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig `validate:"required"`
	Data   DataConfig   `validate:"required"`
	Log    LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string `validate:"required,numeric"`
	GinMode        string `validate:"oneof=debug release test"`
	MaxUploadBytes int64  `validate:"gt=0"`
}

// DataConfig holds data source settings
type DataConfig struct {
	Dir            string        `validate:"required_without=BaseURL"`
	BaseURL        string        `validate:"omitempty,url"`
	DefaultSource  string        `validate:"required"`
	FetchTimeout   time.Duration `validate:"gt=0"`
	PreloadSources bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `validate:"omitempty,oneof=ERROR WARN INFO DEBUG"`
	Env   string
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: *loadServerConfig(),
		Data:   *loadDataConfig(),
		Log:    *loadLogConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 5<<20)),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:            getEnvOrDefault("DATA_DIR", "./data"),
		BaseURL:        getEnvOrDefault("DATA_BASE_URL", ""),
		DefaultSource:  getEnvOrDefault("DEFAULT_SOURCE", "Cleveland"),
		FetchTimeout:   getEnvDurationOrDefault("FETCH_TIMEOUT", 10*time.Second),
		PreloadSources: getEnvBoolOrDefault("PRELOAD_SOURCES", false),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		Env:   getEnvOrDefault("APP_ENV", "development"),
	}
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
