// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	LogLevel string `env:"LOG_LEVEL"`
	LogDev   bool   `env:"LOG_DEV"`
	LogFile  string `env:"LOG_FILE"`

	DataSource     string `env:"DATA_SOURCE" envDefault:"auto"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`

	SessionBackend  string        `env:"SESSION_BACKEND" envDefault:"bolt"`
	SessionPath     string        `env:"SESSION_PATH" envDefault:"web3tr-session.db"`
	SessionDeviceID string        `env:"SESSION_DEVICE_ID" envDefault:"default"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	AppDomain     string        `env:"APP_DOMAIN" envDefault:"localhost"`
	ChainID       int64         `env:"CHAIN_ID" envDefault:"1"`
	NonceTracking bool          `env:"NONCE_TRACKING"`
	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL" envDefault:"10m"`

	HTTPAddr       string `env:"HTTP_ADDR" envDefault:":9000"`
	StorageDir     string `env:"STORAGE_DIR" envDefault:"storage"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:9000/media"`
	SessionKeyFile string `env:"SESSION_KEY_FILE"`

	WalletPrivateKey string `env:"WALLET_PRIVATE_KEY"`
}

// Load reads a .env file when present and parses the environment into a Config.
func Load() (*Config, error) {
	// best effort: a missing .env leaves the real environment in charge
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case "auto", "live", "fixture", "fallback":
	default:
		return fmt.Errorf("invalid DATA_SOURCE %q", c.DataSource)
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.SessionBackend {
	case "bolt", "redis", "memory":
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q", c.SessionBackend)
	}
	if c.SessionBackend == "redis" && c.RedisURL == "" {
		return fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
	}
	if c.SessionTTL <= 0 || c.ChallengeTTL <= 0 {
		return fmt.Errorf("SESSION_TTL and CHALLENGE_TTL must be positive")
	}
	return nil
}
