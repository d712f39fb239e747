// Package apperror provides structured error handling following RFC 7807 Problem Details.
// All filter-resolution errors must use AppError so the HTTP layer can translate them
// into consistent responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes following the filter-resolution taxonomy
const (
	// Infrastructure errors (5xx)
	CodeInternal = "INTERNAL_ERROR"
	CodeDatabase = "DATABASE_ERROR"

	// Configuration defects (5xx) - never user input
	CodeAdapterNotImplemented = "ADAPTER_NOT_IMPLEMENTED"

	// Filter resolution errors (400)
	CodeUnknownFilter          = "UNKNOWN_FILTER"
	CodeRequiredFilterMissing  = "REQUIRED_FILTER_MISSING"
	CodeDependentFilterMissing = "DEPENDENT_FILTER_MISSING"
	CodeSingularViolation      = "SINGULAR_FILTER_VIOLATION"
	CodeInvalidFilterValue     = "INVALID_FILTER_VALUE"
	CodeInvalidLiteral         = "INVALID_FILTER_LITERAL"
	CodeCoercionFailed         = "FILTER_COERCION_FAILED"

	// Generic validation (400)
	CodeValidation = "VALIDATION_ERROR"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"
)

// AppError is the standard error type for the engine.
// It implements error interface and provides structured details for API responses.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Details contains additional context (resource, attribute, offending value)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the suggested HTTP status code
	HTTPStatus int `json:"-"`

	// Err is the underlying error (not exposed in JSON)
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factory functions for filter-resolution errors ---

// NewUnknownFilter is raised when a parameter names a filter the resource
// never declared (neither by name nor alias).
func NewUnknownFilter(resource, name string) *AppError {
	return &AppError{
		Code:       CodeUnknownFilter,
		Message:    fmt.Sprintf("filter %q is not allowlisted on resource %s", name, resource),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filter": name},
	}
}

// NewRequiredFilterMissing aggregates every required filter absent from the request.
func NewRequiredFilterMissing(resource string, names []string) *AppError {
	return &AppError{
		Code:       CodeRequiredFilterMissing,
		Message:    fmt.Sprintf("required filters missing on resource %s: %s", resource, strings.Join(names, ", ")),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filters": names},
	}
}

// NewDependentFilterMissing aggregates every supplied filter whose dependency is absent.
func NewDependentFilterMissing(resource string, names []string) *AppError {
	return &AppError{
		Code:       CodeDependentFilterMissing,
		Message:    fmt.Sprintf("filters on resource %s require other filters that were not supplied: %s", resource, strings.Join(names, ", ")),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filters": names},
	}
}

// NewSingularViolation is raised when a scalar-only filter receives multiple values.
func NewSingularViolation(resource, attribute string) *AppError {
	return &AppError{
		Code:       CodeSingularViolation,
		Message:    fmt.Sprintf("filter %q on resource %s accepts a single value", attribute, resource),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filter": attribute},
	}
}

// NewInvalidFilterValue is raised on the first allow/deny-list violation.
func NewInvalidFilterValue(resource, attribute string, value any) *AppError {
	return &AppError{
		Code:       CodeInvalidFilterValue,
		Message:    fmt.Sprintf("invalid value for filter %q on resource %s", attribute, resource),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filter": attribute, "value": value},
	}
}

// NewInvalidLiteral is raised when a bracketed JSON literal fails to parse.
func NewInvalidLiteral(resource, literal string) *AppError {
	return &AppError{
		Code:       CodeInvalidLiteral,
		Message:    fmt.Sprintf("malformed literal %q in filter on resource %s", literal, resource),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "literal": literal},
	}
}

// NewCoercionFailed wraps a type-system cast error with its attribute and literal.
func NewCoercionFailed(resource, attribute string, value any, err error) *AppError {
	return &AppError{
		Code:       CodeCoercionFailed,
		Message:    fmt.Sprintf("cannot cast value for filter %q on resource %s", attribute, resource),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"resource": resource, "filter": attribute, "value": value},
		Err:        err,
	}
}

// NewAdapterNotImplemented reports a missing adapter operation. This is a
// configuration defect, never a user-input error.
func NewAdapterNotImplemented(adapter, attribute, operation string) *AppError {
	return &AppError{
		Code:       CodeAdapterNotImplemented,
		Message:    fmt.Sprintf("adapter %s does not implement %s (required by filter %q)", adapter, operation, attribute),
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"adapter": adapter, "filter": attribute, "operation": operation},
	}
}

// --- Generic factories kept for the HTTP layer ---

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDatabase wraps a storage failure (500)
func NewDatabase(err error) *AppError {
	return &AppError{
		Code:       CodeDatabase,
		Message:    "Database error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// --- Helper functions ---

// IsAppError checks if error is AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries the given taxonomy code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
