package article

import (
	"errors"
	"fmt"
)

var (
	ErrDatabaseRequired = errors.New("article: repository requires a database")
	ErrTitleRequired    = errors.New("article: title is required")
	ErrURLRequired      = errors.New("article: url is required")
	ErrSlugRequired     = errors.New("article: slug is required")
	ErrStatusInvalid    = errors.New("article: status is invalid")
	ErrNotFound         = errors.New("article: not found")
)

// NotFoundError reports a missing article lookup.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Key == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
