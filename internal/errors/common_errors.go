package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeShapeMismatch ErrorType = "SHAPE_MISMATCH"
	ErrTypeMissingTotals ErrorType = "MISSING_TOTALS"
	ErrTypeParsing       ErrorType = "PARSING"
	ErrTypeNetwork       ErrorType = "NETWORK"
	ErrTypeStorage       ErrorType = "STORAGE"
	ErrTypeValidation    ErrorType = "VALIDATION"
	ErrTypeNotFound      ErrorType = "NOT_FOUND"
	ErrTypeConfig        ErrorType = "CONFIG"
)

// Sentinel causes, matched with errors.Is through AppError.Unwrap.
var (
	// ErrShapeMismatch is the cause of every addition or combination across
	// vote vectors or records whose party lists differ.
	ErrShapeMismatch = stderrors.New("party lists do not match")

	// ErrMissingTotalsRow is the cause of a parse that reached the end of the
	// input without seeing the electorate totals row.
	ErrMissingTotalsRow = stderrors.New("no electorate totals row found")
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

// NewShapeMismatchError reports an addition across incompatible party lists.
func NewShapeMismatchError(left, right []string) *AppError {
	return NewAppError(ErrTypeShapeMismatch,
		fmt.Sprintf("cannot add %d-party vector to %d-party vector", len(left), len(right)),
		ErrShapeMismatch).
		WithContext("left_parties", left).
		WithContext("right_parties", right)
}

// NewMissingTotalsError reports a results file without a totals row.
func NewMissingTotalsError(year int, electorate string) *AppError {
	return NewAppError(ErrTypeMissingTotals,
		fmt.Sprintf("results for %q (%d) ended before the totals row", electorate, year),
		ErrMissingTotalsRow).
		WithContext("year", year).
		WithContext("electorate", electorate)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewRowError creates a parsing error pinned to a 1-based source line.
func NewRowError(line int, message string, cause error) *AppError {
	return NewParsingError(fmt.Sprintf("line %d: %s", line, message), cause).WithContext("line", line)
}

// NewNetworkError creates a network-related error
func NewNetworkError(message string, cause error) *AppError {
	return NewAppError(ErrTypeNetwork, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
