package store

import (
	"errors"
	"fmt"
)

// Generic store errors. Implementations wrap these so callers can use
// errors.Is without depending on the database driver.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates a uniqueness constraint was violated.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates the entity failed validation or violated
	// a foreign key, check or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrUpdateFailed indicates an update affected no rows unexpectedly.
	ErrUpdateFailed = errors.New("update failed")

	// ErrTransactionFailed indicates a transaction could not be committed.
	ErrTransactionFailed = errors.New("transaction failed")
)

// Entity-specific errors.
var (
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)
	ErrCourseNotFound   = fmt.Errorf("%w: course", ErrNotFound)
	ErrLevelNotFound    = fmt.Errorf("%w: level", ErrNotFound)
	ErrLessonNotFound   = fmt.Errorf("%w: lesson", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is, or wraps, ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, ErrDuplicate.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError records the entity and operation of a failed store call.
type StoreError struct {
	Entity    string // e.g. "user", "progress"
	Operation string // e.g. "create", "upsert"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
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
