package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "invalid input"
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// PersistError reports a snapshot that could not be saved after a successful mutation.
// The in-memory state keeps the mutation.
type PersistError struct {
	Snapshot string
	Err      error
}

func (err *PersistError) Error() string {
	return "saving snapshot " + err.Snapshot + ": " + err.Err.Error()
}

func (err *PersistError) Unwrap() error { return err.Err }

func IsPersistError(err error) bool {
	var pErr *PersistError
	return errors.As(err, &pErr)
}

// IsValidationError reports whether err is an input validation failure,
// either from the validator or a *ValidationError.
func IsValidationError(err error) bool {
	var vErrs validator.ValidationErrors
	var vErr *ValidationError
	return errors.As(err, &vErrs) || errors.As(err, &vErr)
}
