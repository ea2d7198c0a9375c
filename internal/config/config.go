// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls the scoring server. Command-line flags override it.
type Config struct {
	Addr            string        `env:"SCORER_ADDR"             envDefault:":8080"`
	DBPath          string        `env:"SCORER_DB"               envDefault:"scorer.db"`
	DBBusyTimeout   time.Duration `env:"SCORER_DB_BUSY_TIMEOUT"  envDefault:"5s"`
	RedisURL        string        `env:"SCORER_REDIS_URL"`
	PolicyPath      string        `env:"SCORER_POLICY"`
	AllowedOrigins  []string      `env:"SCORER_ALLOWED_ORIGINS"  envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SCORER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.DBPath == "" {
		return errors.New("database path is required")
	}
	if c.DBBusyTimeout < 0 {
		return fmt.Errorf("database busy timeout must not be negative, got %s", c.DBBusyTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// AllowAnyOrigin reports whether cross-origin requests are unrestricted.
func (c Config) AllowAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}
