package funko

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("funko not found")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrConflict           = errors.New("funko already exists")
	ErrStorage            = errors.New("storage failure")
)

// DomainError pairs an error category with the message reported to clients.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...any) *DomainError {
	return &DomainError{Err: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *DomainError {
	return newError(ErrValidation, format, args...)
}
