package apperr

import (
	"errors"
	"fmt"
)

// Error codes
const (
	// Oracle errors
	CodeOracleUnavailable = "ORACLE_UNAVAILABLE"
	CodeOracleTimeout     = "ORACLE_TIMEOUT"
	CodeOracleUnparseable = "ORACLE_UNPARSEABLE"
	CodeOracleOverloaded  = "ORACLE_OVERLOADED"

	// Validation errors
	CodeInvalidInput = "INVALID_INPUT"
	CodeMissingField = "MISSING_FIELD"

	// External errors
	CodeDatabaseError = "DATABASE_ERROR"
	CodeMailerError   = "MAILER_ERROR"

	// Internal errors
	CodeInternalError = "INTERNAL_ERROR"
	CodeConfigError   = "CONFIG_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Constructor functions
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Oracle errors
func OracleUnavailable(err error) *AppError {
	return &AppError{
		Code:    CodeOracleUnavailable,
		Message: "oracle call failed",
		Err:     err,
	}
}

func OracleTimeout(operation string) *AppError {
	return &AppError{
		Code:    CodeOracleTimeout,
		Message: fmt.Sprintf("oracle call timed out: %s", operation),
	}
}

func OracleUnparseable(reason string) *AppError {
	return &AppError{
		Code:    CodeOracleUnparseable,
		Message: fmt.Sprintf("oracle output unusable: %s", reason),
	}
}

func OracleOverloaded(reason string) *AppError {
	return &AppError{
		Code:    CodeOracleOverloaded,
		Message: reason,
	}
}

// Validation errors
func InvalidInput(field, reason string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("invalid input for '%s': %s", field, reason),
		Details: map[string]any{"field": field},
	}
}

func MissingField(field string) *AppError {
	return &AppError{
		Code:    CodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// External errors
func DatabaseError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeDatabaseError,
		Message: fmt.Sprintf("database error: %s", operation),
		Err:     err,
	}
}

func MailerError(err error) *AppError {
	return &AppError{
		Code:    CodeMailerError,
		Message: "mail delivery failed",
		Err:     err,
	}
}

// Internal errors
func Internal(message string) *AppError {
	if message == "" {
		message = "internal error"
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
	}
}

func ConfigError(message string) *AppError {
	return &AppError{
		Code:    CodeConfigError,
		Message: message,
	}
}

// Helper functions
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternalError, "internal error")
}

// IsOracleFailure reports whether the error came from the oracle boundary,
// regardless of which specific oracle code fired.
func IsOracleFailure(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeOracleUnavailable, CodeOracleTimeout, CodeOracleUnparseable, CodeOracleOverloaded:
		return true
	}
	return false
}
