// Package config provides configuration loading using koanf.
// Precedence: environment variables, then compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/libmarket/phonecheck/internal/domain"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	Phoned PhonedConfig `koanf:"phoned"`
	Redis  RedisConfig  `koanf:"redis"`
	OTEL   OTELConfig   `koanf:"otel"`
}

// PhonedConfig holds phone-check service configuration.
type PhonedConfig struct {
	HTTPPort int `koanf:"http_port"`
	GRPCPort int `koanf:"grpc_port"`
}

// RedisConfig holds Redis configuration for the uniqueness registry.
type RedisConfig struct {
	Addr     string              `koanf:"addr"` // Required in production
	Password domain.SecretString `koanf:"password"`
	DB       int                 `koanf:"db"`
	Timeout  time.Duration       `koanf:"timeout"`
	Prefix   string              `koanf:"prefix"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// sections are the nested config groups. An env var "<SECTION>_<KEY>" maps to
// "<section>.<key>"; everything else maps to a top-level key as-is.
var sections = []string{"phoned", "redis", "otel"}

func defaults() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		LogFormat:   "json",

		Phoned: PhonedConfig{
			HTTPPort: 8080,
			GRPCPort: 9090,
		},
		Redis: RedisConfig{
			Addr:    "localhost:6379",
			DB:      0,
			Timeout: domain.RedisTimeout,
			Prefix:  "libmarket",
		},
	}
}

// Load loads configuration from the environment over compiled defaults.
// Missing required keys fail startup; optional keys fall back to defaults.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")
	cfg := defaults()

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateRequired(k, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKey maps REDIS_ADDR to redis.addr and LOG_LEVEL to log_level.
func envKey(s string) string {
	s = strings.ToLower(s)
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(s, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return s
}

// validateRequired checks keys that production must set explicitly.
// Compiled defaults do not satisfy them.
func validateRequired(k *koanf.Koanf, cfg *Config) error {
	if cfg.IsProd() && k.String("redis.addr") == "" {
		return fmt.Errorf("%w: redis.addr", domain.ErrConfigRequired)
	}
	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}
