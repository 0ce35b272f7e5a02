package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeUsage         = "USAGE_ERROR"
	ErrCodeInputNotFound = "INPUT_NOT_FOUND"
	ErrCodeInvalidFEN    = "INVALID_FEN"
	ErrCodeIO            = "IO_ERROR"
	ErrCodeRecord        = "RECORD_ERROR"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
)

// Process exit statuses, one per error class.
const (
	ExitOK            = 0
	ExitInternal      = 1
	ExitUsage         = 2
	ExitInputNotFound = 3
	ExitInvalidFEN    = 4
	ExitIO            = 5
	ExitRecord        = 6
)

// AppError represents an application error with an HTTP status, an exit status and an error code
type AppError struct {
	Code    string // Error code (e.g., "INVALID_FEN", "USAGE_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Exit    int    // Process exit status
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUsageError creates a USAGE_ERROR for an invocation that cannot be served
func NewUsageError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUsage,
		Message: message,
		Status:  400,
		Exit:    ExitUsage,
	}
}

// NewInputNotFoundError creates an INPUT_NOT_FOUND error for a missing or unreadable input file
func NewInputNotFoundError(path string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInputNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Status:  404,
		Exit:    ExitInputNotFound,
		Err:     err,
	}
}

// NewInvalidFENError creates an INVALID_FEN error carrying the parser complaint
func NewInvalidFENError(fen string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidFEN,
		Message: fmt.Sprintf("not valid FEN: %q", fen),
		Status:  422,
		Exit:    ExitInvalidFEN,
		Err:     err,
	}
}

// NewIOError creates an IO_ERROR
func NewIOError(op string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeIO,
		Message: fmt.Sprintf("%s failed", op),
		Status:  500,
		Exit:    ExitIO,
		Err:     err,
	}
}

// NewRecordError creates a RECORD_ERROR for a game record rejected in strict mode
func NewRecordError(index int, err error) *AppError {
	return &AppError{
		Code:    ErrCodeRecord,
		Message: fmt.Sprintf("game record %d rejected", index),
		Status:  422,
		Exit:    ExitRecord,
		Err:     err,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
		Exit:    ExitUsage,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		Status:  500,
		Exit:    ExitInternal,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
		Exit:    ExitUsage,
	}
}

// As returns the first AppError in err's chain, wrapping anything else as internal.
func As(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	return As(err).Exit
}
