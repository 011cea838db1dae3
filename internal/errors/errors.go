package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing      ErrorType = "PARSING"
	ErrTypeSchema       ErrorType = "SCHEMA"
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeEmptyDataset ErrorType = "EMPTY_DATASET"
	ErrTypeStorage      ErrorType = "STORAGE"
	ErrTypeConfig       ErrorType = "CONFIG"
)

// Sentinel errors for errors.Is checks at the caller.
var (
	// ErrEmptyDataset is returned when zero rows survive cleaning.
	ErrEmptyDataset = errors.New("no rows survived cleaning")
	// ErrSchemaMismatch is returned when the input file is missing required columns.
	ErrSchemaMismatch = errors.New("input columns do not match expected schema")
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

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewValidationError creates a row-level validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewEmptyDatasetError creates the fatal error for a run where cleaning
// dropped every input row.
func NewEmptyDatasetError(inputRows int) *AppError {
	return NewAppError(ErrTypeEmptyDataset, "cleaning produced an empty dataset", ErrEmptyDataset).
		WithContext("input_rows", inputRows)
}

// NewSchemaMismatchError creates the fatal error for an input file whose
// column set is missing required columns. The file is the wrong shape,
// as opposed to individual rows being malformed.
func NewSchemaMismatchError(missing []string) *AppError {
	return NewAppError(ErrTypeSchema,
		fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
		ErrSchemaMismatch).
		WithContext("missing_columns", missing)
}
