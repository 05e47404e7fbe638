// internal/config/env.go
package config

import (
	"os"
	"strconv"
)

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv(cfg *Config) {
	if port := os.Getenv("SIGNALCRAFT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}

	if logLevel := os.Getenv("SIGNALCRAFT_LOG_LEVEL"); logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}

	if secret := os.Getenv("SIGNALCRAFT_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}

	if source := os.Getenv("SIGNALCRAFT_DEFAULT_SOURCE"); source != "" {
		cfg.Data.DefaultSourceID = source
	}

	if horizon := os.Getenv("SIGNALCRAFT_HORIZON_DAYS"); horizon != "" {
		if h, err := strconv.Atoi(horizon); err == nil && h > 0 {
			cfg.Data.HorizonDays = h
		}
	}

	if seed := os.Getenv("SIGNALCRAFT_DATA_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Data.Seed = s
		}
	}
}

// GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
