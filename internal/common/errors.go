package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInternal          = errors.New("internal error")
	ErrDatabase          = errors.New("database error")
	ErrValidation        = errors.New("validation failed")
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrNoPages is returned for a document with zero pages. It is an invalid-input error.
	ErrNoPages = fmt.Errorf("no pages: %w", ErrInvalidInput)
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InvalidInputError builds the error returned when a PDF cannot be opened or counted.
func InvalidInputError(message string, cause error) error {
	if cause == nil {
		return NewAppError("INVALID_INPUT", message, ErrInvalidInput)
	}
	return NewAppError("INVALID_INPUT", message, errors.Join(ErrInvalidInput, cause))
}

func InvalidInputErrorf(format string, args ...interface{}) error {
	return InvalidInputError(fmt.Sprintf(format, args...), nil)
}
