package config

import (
	"fmt"
	"strconv"
	"time"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	setString(lookup, "HTTP_ADDR", &cfg.HTTP.Addr)
	setString(lookup, "DB_DRIVER", &cfg.Database.Driver)
	setString(lookup, "DB_PATH", &cfg.Database.Path)
	setString(lookup, "DATABASE_URL", &cfg.Database.URL)
	setString(lookup, "JWT_SECRET_KEY", &cfg.Auth.SecretKey)
	setString(lookup, "JWT_ISSUER", &cfg.Auth.Issuer)
	setString(lookup, "SESSION_REDIS_ADDR", &cfg.Session.RedisAddr)
	setString(lookup, "RATE_LIMIT_REDIS_ADDR", &cfg.RateLimit.RedisAddr)

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SESSION_TTL", &cfg.Auth.TokenTTL},
		{"RATE_LIMIT_WINDOW", &cfg.RateLimit.Window},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if err := setDuration(lookup, d.key, d.dst); err != nil {
			return err
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"BCRYPT_COST", &cfg.Auth.BcryptCost},
		{"RATE_LIMIT_REQUESTS", &cfg.RateLimit.Requests},
		{"ACTIVITY_FEED_SIZE", &cfg.Activity.FeedSize},
	}
	for _, i := range ints {
		if err := setInt(lookup, i.key, i.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"DB_DEBUG", &cfg.Database.Debug},
		{"SESSION_COOKIE_SECURE", &cfg.Session.CookieSecure},
	}
	for _, b := range bools {
		if err := setBool(lookup, b.key, b.dst); err != nil {
			return err
		}
	}
	return nil
}

func setString(lookup lookupFunc, key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(lookup lookupFunc, key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func setInt(lookup lookupFunc, key string, dst *int) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(lookup lookupFunc, key string, dst *bool) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
