package web

import (
	"errors"
	"net/url"
	"strings"

	domain "github.com/AleksKostadinov/todo-app/domain/user"
	"github.com/AleksKostadinov/todo-app/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the key used to store user claims in the Fiber context.
const UserContextKey = "user"

// loadUser resolves the session token to claims and stores them in the
// context. A stale or forged token ends the session; the request continues
// anonymously.
func (s *Server) loadUser(c *fiber.Ctx) error {
	token, err := s.sessionToken(c)
	if err != nil {
		return err
	}
	if token == "" {
		return c.Next()
	}

	claims, err := s.auth.ValidateToken(c.UserContext(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidToken) && !errors.Is(err, auth.ErrExpiredToken) {
			return err
		}
		s.logger.Debug("Discarding session with unusable token", "error", err)
		if err := s.endSession(c); err != nil {
			return err
		}
		return c.Next()
	}

	c.Locals(UserContextKey, claims)
	return c.Next()
}

// requireLogin sends anonymous requests to the login page, remembering
// where they were headed.
func (s *Server) requireLogin(c *fiber.Ctx) error {
	if currentUser(c) == nil {
		return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
	}
	return c.Next()
}

// redirectAuthenticated sends a logged-in user straight to the task list.
func (s *Server) redirectAuthenticated(c *fiber.Ctx) error {
	if currentUser(c) != nil {
		return c.Redirect("/")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals(UserContextKey).(*domain.Claims)
	return claims
}

// safeNext returns next when it is a path on this site, "/" otherwise.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
