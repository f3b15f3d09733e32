package store

import (
	"errors"
	"fmt"
)

// Base errors. Match with errors.Is; the entity-specific errors below wrap them.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")
)

var (
	ErrCredentialNotFound = fmt.Errorf("%w: credential", ErrNotFound)
	ErrProfileNotFound    = fmt.Errorf("%w: profile", ErrNotFound)
	ErrBookNotFound       = fmt.Errorf("%w: book", ErrNotFound)

	// ErrUsernameExists and ErrEmailExists come from the auth_users unique
	// constraints, so a concurrent registration that passed the existence
	// check still fails with the right kind.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
	ErrEmailExists    = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrBookAlreadyLinked means the profile_books row already exists.
	ErrBookAlreadyLinked = fmt.Errorf("%w: profile book", ErrDuplicate)
)

// StoreError records which entity and operation failed around an
// underlying database error.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := e.Entity + " " + e.Operation + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
