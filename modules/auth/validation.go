package auth

import (
	"errors"
	"unicode"
)

const (
	// MinUsernameLength is the shortest accepted username.
	MinUsernameLength = 5
	// MaxUsernameLength is the longest accepted username.
	MaxUsernameLength = 150
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

var (
	// ErrUsernameInvalid is returned when the username is not alphanumeric or too short.
	ErrUsernameInvalid = errors.New("username must be alphanumeric and at least 5 characters")
	// ErrPasswordInvalid is returned when the password is too short or lacks letters or digits.
	ErrPasswordInvalid = errors.New("password must be at least 8 characters and contain letters and digits")
	// ErrPasswordTooLong is returned when password exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	// ErrPasswordMismatch is returned when the confirmation differs from the password.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidateUsername accepts ASCII letters and digits only.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return ErrUsernameInvalid
	}
	for _, r := range username {
		if !isASCIIAlnum(r) {
			return ErrUsernameInvalid
		}
	}
	return nil
}

// ValidatePassword enforces length and requires at least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordInvalid
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordInvalid
	}
	return nil
}

// ValidateRegistration checks the registration form fields in order and
// returns the first violation.
func ValidateRegistration(username, password, confirm string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
