package web

import (
	"errors"
	"strings"

	domain "github.com/AleksKostadinov/todo-app/domain/user"
	"github.com/AleksKostadinov/todo-app/modules/auth"
	"github.com/gofiber/fiber/v2"
)

var authMessages = []struct {
	err     error
	message string
}{
	{auth.ErrUsernameInvalid, "Enter a valid username of at least 5 characters. It may contain only letters and numbers."},
	{auth.ErrPasswordInvalid, "Your password must contain at least 8 characters, including letters and digits."},
	{auth.ErrPasswordTooLong, "Your password must be at most 72 bytes long."},
	{auth.ErrPasswordMismatch, "The two password fields didn't match."},
	{domain.ErrUserExists, "A user with that username already exists."},
	{auth.ErrInvalidCredentials, "Please enter a correct username and password."},
}

func authMessage(err error) string {
	for _, m := range authMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return err.Error()
}

func (s *Server) loginForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Next": c.Query("next"),
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := c.FormValue("next")

	session, err := s.auth.Login(c.UserContext(), username, password)
	if err != nil {
		if !auth.IsValidationError(err) {
			return err
		}
		return s.render(c, fiber.StatusOK, "login", fiber.Map{
			"Next":     next,
			"Username": username,
			"Error":    authMessage(err),
		})
	}

	if err := s.startSession(c, session.Token); err != nil {
		return err
	}
	s.logger.Info("User logged in", "user_id", session.UserID, "username", session.Username)
	return c.Redirect(safeNext(next))
}

func (s *Server) logout(c *fiber.Ctx) error {
	if claims := currentUser(c); claims != nil {
		s.logger.Info("User logged out", "user_id", claims.UserID)
	}
	if err := s.endSession(c); err != nil {
		return err
	}
	return c.Redirect("/login")
}

func (s *Server) registerForm(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", nil)
}

func (s *Server) register(c *fiber.Ctx) error {
	in := auth.RegisterInput{
		Username:        strings.TrimSpace(c.FormValue("username")),
		Password:        c.FormValue("password"),
		PasswordConfirm: c.FormValue("password_confirm"),
	}

	session, err := s.auth.Register(c.UserContext(), in)
	if err != nil {
		if !auth.IsValidationError(err) {
			return err
		}
		return s.render(c, fiber.StatusOK, "register", fiber.Map{
			"Username": in.Username,
			"Error":    authMessage(err),
		})
	}

	if err := s.startSession(c, session.Token); err != nil {
		return err
	}
	s.logger.Info("User registered and logged in", "user_id", session.UserID, "username", session.Username)
	return c.Redirect("/")
}
