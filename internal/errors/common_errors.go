package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeStructural   ErrorType = "STRUCTURAL"
	ErrTypeNotValidated ErrorType = "NOT_VALIDATED"
	ErrTypeOutOfRange   ErrorType = "OUT_OF_RANGE"
	ErrTypeFormat       ErrorType = "UNSUPPORTED_FORMAT"
	ErrTypeParsing      ErrorType = "PARSING"
)

// Dataset errors. Callers test for these with errors.Is; the constructors
// below wrap them with context.
var (
	ErrNotValidated      = errors.New("dataset not validated")
	ErrIndexOutOfRange   = errors.New("row index out of range")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrStructuralRead    = errors.New("structural read error")
	ErrMissingColumn     = errors.New("missing required column")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotValidatedError reports that path has no successful validation on record.
func NewNotValidatedError(path string) *AppError {
	return NewAppError(ErrTypeNotValidated, fmt.Sprintf("%s has not passed validation", path), ErrNotValidated).
		WithContext("path", path)
}

// NewIndexOutOfRangeError reports a row index outside [0, rows).
func NewIndexOutOfRangeError(path string, index, rows int) *AppError {
	return NewAppError(ErrTypeOutOfRange, fmt.Sprintf("row %d requested from %s with %d rows", index, path, rows), ErrIndexOutOfRange).
		WithContext("path", path).
		WithContext("index", index).
		WithContext("rows", rows)
}

// NewUnsupportedFormatError reports an unknown export format tag.
func NewUnsupportedFormatError(format string) *AppError {
	return NewAppError(ErrTypeFormat, fmt.Sprintf("format %q", format), ErrUnsupportedFormat).
		WithContext("format", format)
}

// NewStructuralError creates an error for unreadable or malformed input.
// The cause is joined with ErrStructuralRead so both remain matchable.
func NewStructuralError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrStructuralRead
	} else if !errors.Is(cause, ErrStructuralRead) {
		cause = errors.Join(ErrStructuralRead, cause)
	}
	return NewAppError(ErrTypeStructural, message, cause)
}

// NewMissingColumnError creates a structural error for an absent header column.
func NewMissingColumnError(column string) *AppError {
	return NewStructuralError(fmt.Sprintf("header lacks %q", column), ErrMissingColumn).
		WithContext("column", column)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// FieldValidationError describes the first field that broke its rule.
type FieldValidationError struct {
	Field  string
	Value  string
	Row    int
	Reason string
	Cause  error
}

// Error implements the error interface
func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("%s: %s=%q at row %d", e.Reason, e.Field, e.Value, e.Row)
}

// Unwrap returns the underlying rule violation.
func (e *FieldValidationError) Unwrap() error {
	return e.Cause
}
