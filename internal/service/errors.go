package service

import (
	"errors"
	"fmt"
)

// Service sentinel errors. Callers check them with errors.Is; the API layer
// maps each one to a status code. Returned errors usually wrap a sentinel
// together with the offending id.
var (
	// ErrProfileNotFound indicates the user profile does not exist (404).
	ErrProfileNotFound = errors.New("user not found")

	// ErrBookNotFound indicates the book does not exist in the catalog (404).
	ErrBookNotFound = errors.New("book not found")

	// ErrBookAlreadyOwned indicates the book is already in the user's collection (409).
	ErrBookAlreadyOwned = errors.New("the user already has this book in their collection")

	// ErrBookNotOwned indicates the book exists but is not in the user's collection (404).
	ErrBookNotOwned = errors.New("the book is not in the user's collection")

	// ErrUsernameTaken indicates registration with a username already in use (409).
	ErrUsernameTaken = errors.New("the username is already in use")

	// ErrEmailTaken indicates registration with an email already in use (409).
	ErrEmailTaken = errors.New("email is already in use")
)

// ServiceError wraps an unexpected failure with the service and operation
// it happened in.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

func notFound(sentinel error, id fmt.Stringer) error {
	return fmt.Errorf("%w: %s", sentinel, id)
}
