// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Data      DataConfig      `yaml:"data"`
}

type ServerConfig struct {
	Port     int    `yaml:"port" default:"8080"`
	LogLevel string `yaml:"log_level" default:"info"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"25"`
	Burst             int     `yaml:"burst" default:"50"`
}

type DataConfig struct {
	DefaultSourceID string `yaml:"default_source_id" default:"revenue-daily"`
	HorizonDays     int    `yaml:"horizon_days" default:"30"`
	Seed            int64  `yaml:"seed"` // 0 = seed from the clock
}

// Default returns a config with workable development values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Auth: AuthConfig{
			JWTSecret: "change-me-in-production",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 25,
			Burst:             50,
		},
		Data: DataConfig{
			DefaultSourceID: "revenue-daily",
			HorizonDays:     30,
		},
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
