package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all environment-derived settings. It is built once in main
// and passed into the components that need it; nothing reads the environment
// after startup.
type Config struct {
	AppPort     string `env:"APP_PORT" envDefault:"8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`

	DatabaseDSN string `env:"DATABASE_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	AccessTokenSecret  string        `env:"JWT_SECRET"`
	AccessTokenTTL     time.Duration `env:"JWT_EXPIRATION" envDefault:"15m"`
	RefreshTokenSecret string        `env:"JWT_REFRESH_SECRET"`
	RefreshTokenTTL    time.Duration `env:"JWT_REFRESH_EXPIRATION" envDefault:"168h"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`

	// RedirectBaseURL is the externally visible base URL used to build
	// provider callback URLs, e.g. http://localhost:8080.
	RedirectBaseURL string `env:"REDIRECT_BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if cfg.AccessTokenSecret == "" || cfg.RefreshTokenSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET and JWT_REFRESH_SECRET are required")
	}
	return cfg, nil
}

// Production reports whether the process runs with production hardening.
// Test-only capabilities (like the OAuth mock profile) must never be wired
// when this returns true.
func (c Config) Production() bool {
	return c.Environment == "production"
}
