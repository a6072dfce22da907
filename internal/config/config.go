// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// FallbackJWTSecret is used when JWT_SECRET is unset. It is insecure on
// purpose: it keeps local development working, and Load reports its use
// so the caller can log a warning. Never run production without
// JWT_SECRET.
const FallbackJWTSecret = "your_jwt_secret"

// Config holds everything the server needs. All values are read once at
// startup and passed into constructors; nothing reads the environment
// after this.
type Config struct {
	Port       int           `env:"PORT" envDefault:"8080"`
	DBPath     string        `env:"DB_PATH" envDefault:"data/skilltracker.db"`
	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	// GitHub sign-in is optional; the OAuth routes register only when
	// both client values are set.
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	GitHubCallbackURL  string `env:"GITHUB_CALLBACK_URL"`
}

// Load parses the environment into a Config. The second return value
// reports whether the insecure fallback JWT secret was applied.
func Load() (*Config, bool, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, false, fmt.Errorf("config: parsing environment: %w", err)
	}

	usingFallback := false
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = FallbackJWTSecret
		usingFallback = true
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return &cfg, usingFallback, nil
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}
