package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// AppConfig is the process configuration of the CLI and the HTTP server.
type AppConfig struct {
	Addr          string `env:"LIFEPLAN_ADDR"           envDefault:":8080"`
	DBPath        string `env:"LIFEPLAN_DB_PATH"`
	LogLevel      string `env:"LIFEPLAN_LOG_LEVEL"      envDefault:"info"`
	MaxBodyBytes  int    `env:"LIFEPLAN_MAX_BODY_BYTES" envDefault:"4194304"`
	DefaultFormat string `env:"LIFEPLAN_DEFAULT_FORMAT" envDefault:"console"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadAppConfig reads AppConfig from the environment and checks it.
func LoadAppConfig() (AppConfig, error) {
	var cfg AppConfig
	if err := ParseEnv(&cfg); err != nil {
		return AppConfig{}, err
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return AppConfig{}, fmt.Errorf("invalid LIFEPLAN_LOG_LEVEL %q", cfg.LogLevel)
	}
	if cfg.MaxBodyBytes <= 0 {
		return AppConfig{}, fmt.Errorf("LIFEPLAN_MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}
