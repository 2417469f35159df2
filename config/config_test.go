package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeEnv(values map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTP.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
}

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "absent.toml"), filepath.Join(dir, "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultRateRequests, cfg.RateLimit.Requests)
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.toml")
	content := `
shutdown_timeout = "5s"

[http]
addr = ":8080"
read_timeout = "3s"

[database]
driver = "sqlite"
path = "/tmp/tasks.db"

[auth]
issuer = "tasks"
token_ttl = "2h"

[ratelimit]
requests = 3
window = "30s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "/tmp/tasks.db", cfg.Database.Path)
	assert.Equal(t, "tasks", cfg.Auth.Issuer)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 3, cfg.RateLimit.Requests)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultSecretKey, cfg.Auth.SecretKey)
}

func TestLoad_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.toml")
	require.NoError(t, os.WriteFile(path, []byte("[http\naddr = "), 0o600))

	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACTIVITY_FEED_SIZE=7\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("ACTIVITY_FEED_SIZE") })

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Activity.FeedSize)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, fakeEnv(map[string]string{
		"HTTP_ADDR":             ":9000",
		"DB_DRIVER":             "postgres",
		"DATABASE_URL":          "postgres://localhost/todo",
		"DB_DEBUG":              "true",
		"SESSION_TTL":           "90m",
		"BCRYPT_COST":           "4",
		"SESSION_REDIS_ADDR":    "localhost:6379",
		"SESSION_COOKIE_SECURE": "1",
		"RATE_LIMIT_REQUESTS":   "25",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/todo", cfg.Database.URL)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, "localhost:6379", cfg.Session.RedisAddr)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 25, cfg.RateLimit.Requests)
	require.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad duration", env: map[string]string{"SESSION_TTL": "soon"}},
		{name: "bad int", env: map[string]string{"RATE_LIMIT_REQUESTS": "many"}},
		{name: "bad bool", env: map[string]string{"DB_DEBUG": "perhaps"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := applyEnv(Default(), fakeEnv(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "postgres without url", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Database.Path = "" }},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.SecretKey = "" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }},
		{name: "bcrypt cost too low", mutate: func(c *Config) { c.Auth.BcryptCost = 2 }},
		{name: "zero rate requests", mutate: func(c *Config) { c.RateLimit.Requests = 0 }},
		{name: "zero feed size", mutate: func(c *Config) { c.Activity.FeedSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
