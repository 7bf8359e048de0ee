// Package errors defines the error taxonomy of the proposal converter.
//
// Every failure surfaced by the pipeline is an *AppError whose Type names the
// failure class. Callers test the class with the standard library:
//
//	if errors.Is(err, apperrors.ErrSourceNotFound) { ... }
//
// Only ErrTypeInvalidEnumValue is recoverable; the normalizer reports it as a
// warning and keeps going. Every other type aborts the run.
package errors

import (
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeSourceNotFound   ErrorType = "SOURCE_NOT_FOUND"
	ErrTypeSourceUnreadable ErrorType = "SOURCE_UNREADABLE"
	ErrTypeMalformedRow     ErrorType = "MALFORMED_ROW"
	ErrTypeInvalidEnumValue ErrorType = "INVALID_ENUM_VALUE"
	ErrTypeSinkUnwritable   ErrorType = "SINK_UNWRITABLE"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Sentinels for errors.Is. They match any *AppError of the same Type.
var (
	ErrSourceNotFound   = &AppError{Type: ErrTypeSourceNotFound, Message: "source not found"}
	ErrSourceUnreadable = &AppError{Type: ErrTypeSourceUnreadable, Message: "source unreadable"}
	ErrMalformedRow     = &AppError{Type: ErrTypeMalformedRow, Message: "malformed row"}
	ErrInvalidEnumValue = &AppError{Type: ErrTypeInvalidEnumValue, Message: "invalid enum value"}
	ErrSinkUnwritable   = &AppError{Type: ErrTypeSinkUnwritable, Message: "sink unwritable"}
	ErrConfig           = &AppError{Type: ErrTypeConfig, Message: "invalid configuration"}
)

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to reach the cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError by type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
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

// NewSourceNotFoundError reports a missing input path
func NewSourceNotFoundError(path string, cause error) *AppError {
	return NewAppError(ErrTypeSourceNotFound, fmt.Sprintf("source %s not found", path), cause).
		WithContext("path", path)
}

// NewSourceUnreadableError reports an input that exists but cannot be opened or decoded
func NewSourceUnreadableError(path string, cause error) *AppError {
	return NewAppError(ErrTypeSourceUnreadable, fmt.Sprintf("source %s is unreadable", path), cause).
		WithContext("path", path)
}

// NewMalformedRowError reports a row that lacks a column promised by the header.
// row is the 1-based source line, header included.
func NewMalformedRowError(row int, column string) *AppError {
	return NewAppError(ErrTypeMalformedRow, fmt.Sprintf("row %d has no value for column %q", row, column), nil).
		WithContext("row", row).
		WithContext("column", column)
}

// NewRowParseError reports a row the tabular decoder could not split into fields
func NewRowParseError(row int, cause error) *AppError {
	return NewAppError(ErrTypeMalformedRow, fmt.Sprintf("row %d cannot be parsed", row), cause).
		WithContext("row", row)
}

// NewInvalidEnumValueError reports a field value outside its enumeration
func NewInvalidEnumValueError(field, value string, id int) *AppError {
	return NewAppError(ErrTypeInvalidEnumValue,
		fmt.Sprintf("invalid %s value %q for proposal %d", field, value, id), nil).
		WithContext("field", field).
		WithContext("value", value).
		WithContext("id", id)
}

// NewSinkUnwritableError reports an output destination that cannot be written
func NewSinkUnwritableError(path string, cause error) *AppError {
	return NewAppError(ErrTypeSinkUnwritable, fmt.Sprintf("cannot write %s", path), cause).
		WithContext("path", path)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
