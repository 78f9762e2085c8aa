// Package config loads server configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server configuration.
type Config struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	DBPath   string `env:"DB_PATH" envDefault:"./data/paysplit.db"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	SecureCookies bool          `env:"SECURE_COOKIES" envDefault:"false"`

	// AdminUsername and AdminPassword seed an admin account on startup when
	// the password is set and the account does not exist yet.
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	PluginsPath string `env:"PLUGINS_PATH"`
	DocsURL     string `env:"DOCS_URL" envDefault:"https://www.drupal.org/docs/8/modules/ubercart"`
	Language    string `env:"LANGUAGE" envDefault:"en"`
}

// Load parses Config from the environment. Variables from the file named by
// ENV_FILE (default .env) fill in what the environment leaves unset.
func Load() (Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.JWTSecret) < 16 {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	return cfg, nil
}
