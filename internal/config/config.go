package config

import (
	"os"
	"strconv"
)

// Config holds the service configuration loaded from the environment.
type Config struct {
	Port   string
	LogEnv string

	// Voice platform credentials
	RetellAPIKey  string
	RetellBaseURL string

	// Secret for the management-API JWT key check. Empty disables the check
	// (development only).
	APIKeySecret string

	EnableCORS bool

	// Requests per second allowed on the inbound webhook and tool endpoints,
	// with a burst of twice the rate.
	InboundRPS int

	// Redis (optional; stats caching and call-event fan-out degrade
	// gracefully without it)
	RedisHost     string
	RedisPort     string
	RedisPassword string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnvOrDefault("PORT", "8080"),
		LogEnv:        getEnvOrDefault("LOG_ENV", "development"),
		RetellAPIKey:  getEnvOrDefault("RETELL_API_KEY", ""),
		RetellBaseURL: getEnvOrDefault("RETELL_BASE_URL", ""),
		APIKeySecret:  getEnvOrDefault("API_KEY_SECRET", ""),
		EnableCORS:    getEnvAsBoolOrDefault("ENABLE_CORS", true),
		InboundRPS:    getEnvAsIntOrDefault("INBOUND_RPS", 50),
		RedisHost:     getEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     getEnvOrDefault("REDIS_PORT", "6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
	}
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
