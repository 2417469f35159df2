package task

import (
	"errors"
	"fmt"

	domain "github.com/AleksKostadinov/todo-app/domain/task"
)

// ErrOwnerRequired is returned when an operation is attempted without an owner.
var ErrOwnerRequired = errors.New("task owner is required")

// Error codes carried over the service container.
const (
	CodeTitleRequired = "title_required"
	CodeTitleTooLong  = "title_too_long"
	CodeTitleTaken    = "title_taken"
	CodeNotFound      = "not_found"
	CodeOwnerRequired = "owner_required"
)

var codedErrors = []struct {
	code string
	err  error
}{
	{CodeTitleRequired, domain.ErrTitleRequired},
	{CodeTitleTooLong, domain.ErrTitleTooLong},
	{CodeTitleTaken, domain.ErrTitleTaken},
	{CodeNotFound, domain.ErrNotFound},
	{CodeOwnerRequired, ErrOwnerRequired},
}

func errorCode(err error) string {
	for _, c := range codedErrors {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

func errorFromCode(code string) error {
	for _, c := range codedErrors {
		if c.code == code {
			return c.err
		}
	}
	return fmt.Errorf("task: unknown error code %q", code)
}
