package auth

import (
	"errors"
	"fmt"

	domain "github.com/AleksKostadinov/todo-app/domain/user"
)

// Error codes carried over the service container.
const (
	CodeUsernameInvalid    = "username_invalid"
	CodePasswordInvalid    = "password_invalid"
	CodePasswordTooLong    = "password_too_long"
	CodePasswordMismatch   = "password_mismatch"
	CodeUsernameTaken      = "username_taken"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidToken       = "invalid_token"
	CodeExpiredToken       = "token_expired"
	CodeUserNotFound       = "user_not_found"
)

var codedErrors = []struct {
	code string
	err  error
}{
	{CodeUsernameInvalid, ErrUsernameInvalid},
	{CodePasswordInvalid, ErrPasswordInvalid},
	{CodePasswordTooLong, ErrPasswordTooLong},
	{CodePasswordMismatch, ErrPasswordMismatch},
	{CodeUsernameTaken, domain.ErrUserExists},
	{CodeInvalidCredentials, ErrInvalidCredentials},
	{CodeInvalidToken, ErrInvalidToken},
	{CodeExpiredToken, ErrExpiredToken},
	{CodeUserNotFound, domain.ErrUserNotFound},
}

// errorCode returns the code for a domain error, or "" for anything else.
func errorCode(err error) string {
	for _, c := range codedErrors {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// errorFromCode maps a code back to its sentinel error.
func errorFromCode(code string) error {
	for _, c := range codedErrors {
		if c.code == code {
			return c.err
		}
	}
	return fmt.Errorf("auth: unknown error code %q", code)
}

// IsValidationError reports whether err belongs on the registration or login form.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrUsernameInvalid),
		errors.Is(err, ErrPasswordInvalid),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrPasswordMismatch),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, ErrInvalidCredentials):
		return true
	}
	return false
}
