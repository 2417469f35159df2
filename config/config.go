// Package config loads application settings from defaults, an optional TOML
// file, an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Default values.
const (
	DefaultConfigFile      = "todo.toml"
	DefaultEnvFile         = ".env"
	DefaultHTTPAddr        = ":3000"
	DefaultDBDriver        = DriverSQLite
	DefaultDBPath          = "todo.db"
	DefaultSecretKey       = "change-me-in-production"
	DefaultIssuer          = "todo-app"
	DefaultTokenTTL        = 24 * time.Hour
	DefaultBcryptCost      = 12
	DefaultRateRequests    = 10
	DefaultRateWindow      = time.Minute
	DefaultFeedSize        = 20
	DefaultShutdownTimeout = 30 * time.Second
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the full application configuration.
type Config struct {
	HTTP            HTTPConfig      `toml:"http"`
	Database        DatabaseConfig  `toml:"database"`
	Auth            AuthConfig      `toml:"auth"`
	Session         SessionConfig   `toml:"session"`
	RateLimit       RateLimitConfig `toml:"ratelimit"`
	Activity        ActivityConfig  `toml:"activity"`
	ShutdownTimeout time.Duration   `toml:"shutdown_timeout"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// DatabaseConfig selects and configures the relational store.
type DatabaseConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	URL    string `toml:"url"`
	Debug  bool   `toml:"debug"`
}

// AuthConfig configures session tokens and password hashing.
type AuthConfig struct {
	SecretKey  string        `toml:"secret_key"`
	Issuer     string        `toml:"issuer"`
	TokenTTL   time.Duration `toml:"token_ttl"`
	BcryptCost int           `toml:"bcrypt_cost"`
}

// SessionConfig configures the session cookie and its storage.
type SessionConfig struct {
	RedisAddr    string `toml:"redis_addr"`
	CookieSecure bool   `toml:"cookie_secure"`
}

// RateLimitConfig configures throttling of login and registration.
type RateLimitConfig struct {
	RedisAddr string        `toml:"redis_addr"`
	Requests  int           `toml:"requests"`
	Window    time.Duration `toml:"window"`
}

// ActivityConfig configures the per-user activity feed.
type ActivityConfig struct {
	FeedSize int `toml:"feed_size"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         DefaultHTTPAddr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: DefaultDBDriver,
			Path:   DefaultDBPath,
		},
		Auth: AuthConfig{
			SecretKey:  DefaultSecretKey,
			Issuer:     DefaultIssuer,
			TokenTTL:   DefaultTokenTTL,
			BcryptCost: DefaultBcryptCost,
		},
		RateLimit: RateLimitConfig{
			Requests: DefaultRateRequests,
			Window:   DefaultRateWindow,
		},
		Activity: ActivityConfig{
			FeedSize: DefaultFeedSize,
		},
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Load builds the configuration. A missing configFile or envFile is not an
// error; a malformed one is. Environment variables override file values.
func Load(configFile, envFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadConfigFile(cfg, configFile); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat config file %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return errors.New("database.path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return errors.New("database.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Auth.SecretKey == "" {
		return errors.New("auth.secret_key must not be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("auth.bcrypt_cost %d out of range 4..31", c.Auth.BcryptCost)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return errors.New("ratelimit.requests and ratelimit.window must be positive")
	}
	if c.Activity.FeedSize <= 0 {
		return errors.New("activity.feed_size must be positive")
	}
	return nil
}
