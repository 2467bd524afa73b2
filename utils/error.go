package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}

// ValidationError reports bad input on a named entity field.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s.%s %s", e.Entity, e.Field, e.Reason)
}

func NewValidationError(entity, field, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Reason: reason}
}

// InvalidStateError reports an operation not permitted for the entity's current status.
type InvalidStateError struct {
	Entity    string
	Id        int
	Status    string
	Operation string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %d is %s: %s not permitted", e.Entity, e.Id, e.Status, e.Operation)
}

// NotFoundError reports a missing referenced id.
type NotFoundError struct {
	Entity string
	Id     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.Id)
}

func (e *NotFoundError) Unwrap() error {
	return ErrorRecordNotFound
}

// ConsistencyError means a multi-record posting could not be committed atomically.
// The wrapped error is the failing step; the transaction has been rolled back.
type ConsistencyError struct {
	Operation string
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s could not be committed atomically: %v", e.Operation, e.Err)
}

func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsInvalidStateError(err error) bool {
	var se *InvalidStateError
	return errors.As(err, &se)
}

func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
