package web

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis/v3"
	nanoid "github.com/jaevor/go-nanoid"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = 24 * time.Hour

const (
	sessionCookieName = "todo_session"
	sessionTokenKey   = "token"
	sessionIDLength   = 32
)

// SessionOptions configures the session cookie.
type SessionOptions struct {
	TTL          time.Duration
	CookieSecure bool
}

// NewSessionStore creates the cookie session store. A nil storage keeps
// sessions in memory.
func NewSessionStore(opts SessionOptions, storage fiber.Storage) *session.Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	cfg := session.Config{
		Expiration:     ttl,
		KeyLookup:      "cookie:" + sessionCookieName,
		CookieSecure:   opts.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator:   newSessionKeyGenerator(),
	}
	if storage != nil {
		cfg.Storage = storage
	}
	return session.New(cfg)
}

// NewRedisSessionStorage creates a Redis-backed fiber storage at addr.
// redis.New panics when it cannot connect, so callers ping the server first.
func NewRedisSessionStorage(addr string) fiber.Storage {
	host, port := parseRedisAddr(addr)
	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		PoolSize: 10,
	})
}

func newSessionKeyGenerator() func() string {
	gen, err := nanoid.Standard(sessionIDLength)
	if err != nil {
		panic(fmt.Sprintf("web: session id generator: %v", err))
	}
	return gen
}

// parseRedisAddr splits host:port, falling back to the Redis defaults.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}

// startSession stores the token in a fresh session, discarding any
// identifier the client arrived with.
func (s *Server) startSession(c *fiber.Ctx, token string) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(sessionTokenKey, token)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// endSession destroys the session and its cookie.
func (s *Server) endSession(c *fiber.Ctx) error {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// sessionToken returns the token stored in the request's session, if any.
func (s *Server) sessionToken(c *fiber.Ctx) (string, error) {
	sess, err := s.sessions.Get(c)
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	token, _ := sess.Get(sessionTokenKey).(string)
	return token, nil
}
