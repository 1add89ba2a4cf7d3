package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name read by parseEnv.
const EnvPrefix = "SNAPPY_"

// EnvConfig is a DTO for environment variables. Unset variables leave the
// corresponding Config field untouched.
type EnvConfig struct {
	ServerURL      string        `env:"SERVER_URL"`
	AvatarAPIURL   string        `env:"AVATAR_API_URL"`
	DBPath         string        `env:"DB_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
}

// ParseEnv loads target from SNAPPY_* environment variables.
func ParseEnv(target *EnvConfig) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// parseEnv overlays cfg with SNAPPY_* variables. It panics on malformed
// values.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := ParseEnv(&ec); err != nil {
		panic(err)
	}

	if ec.ServerURL != "" {
		cfg.ServerURL = ec.ServerURL
	}
	if ec.AvatarAPIURL != "" {
		cfg.AvatarAPIURL = ec.AvatarAPIURL
	}
	if ec.DBPath != "" {
		cfg.DBPath = ec.DBPath
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
