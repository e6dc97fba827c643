package orm

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// DatabaseError wraps database-related errors from GORM
type DatabaseError struct {
	Inner error
}

func (e *DatabaseError) Error() string {
	return "Database operation failed: " + e.Inner.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Inner
}

// NotFoundError represents a load by identifier that matched no row
type NotFoundError struct {
	Search string
}

func (e *NotFoundError) Error() string {
	return "Record not found for search: " + e.Search
}

// ConflictError represents a duplicate key on insert
type ConflictError struct {
	Conflict string
}

func (e *ConflictError) Error() string {
	return "Conflict error for: " + e.Conflict
}

// ConstraintViolationError represents a failed foreign key check, e.g. a
// primer pair referencing a gene row that does not exist.
type ConstraintViolationError struct {
	Constraint string
	Inner      error
}

func (e *ConstraintViolationError) Error() string {
	return "Constraint violated for: " + e.Constraint
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Inner
}

// StorageUnavailableError is returned when the backing store cannot be opened
// or created.
type StorageUnavailableError struct {
	Location string
	Inner    error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("Storage unavailable at %s: %v", e.Location, e.Inner)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Inner
}

type BadInputError struct {
	Reason string
}

func (e *BadInputError) Error() string {
	return "Bad input: " + e.Reason
}

// wrapErrorWithDetails creates a more specific error message
func wrapErrorWithDetails(err error, operation, details string) error {
	if err == nil {
		return nil
	}

	// Errors that are already classified pass through untouched
	var (
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		constraintErr *ConstraintViolationError
		badInputErr   *BadInputError
		dbErr         *DatabaseError
	)
	if errors.As(err, &notFoundErr) || errors.As(err, &conflictErr) ||
		errors.As(err, &constraintErr) || errors.As(err, &badInputErr) ||
		errors.As(err, &dbErr) {
		return err
	}

	// Handle specific GORM errors with details
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Search: fmt.Sprintf("%s (%s)", operation, details)}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Conflict: fmt.Sprintf("%s (%s)", operation, details)}
	}

	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return &ConstraintViolationError{
			Constraint: fmt.Sprintf("%s (%s)", operation, details),
			Inner:      err,
		}
	}

	// For other database errors, wrap with DatabaseError
	return &DatabaseError{Inner: fmt.Errorf("%s: %w", operation, err)}
}
