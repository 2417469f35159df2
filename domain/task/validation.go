package task

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title accepted, counted in characters.
const MaxTitleLength = 50

var (
	// ErrTitleRequired is returned for an empty or blank title.
	ErrTitleRequired = errors.New("title is required")
	// ErrTitleTooLong is returned when the title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title must be at most 50 characters")
	// ErrTitleTaken is returned when another task already uses the title.
	ErrTitleTaken = errors.New("a task with this title already exists")
	// ErrNotFound is returned when a task does not exist or is not owned by the caller.
	ErrNotFound = errors.New("task not found")
)

// NormalizeTitle trims surrounding whitespace.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle checks presence and length of an already normalized title.
// Uniqueness is enforced by the store.
func ValidateTitle(title string) error {
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// IsValidationError reports whether err should be shown on the task form
// rather than treated as a failure of the request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrTitleTaken)
}
