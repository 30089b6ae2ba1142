// Package errors provides application-level error types and utilities.
// It defines the error taxonomy surfaced to portal users: validation,
// not found, permission, unsupported capability, capacity, conflict,
// remote and internal errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation_error"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeConflict    ErrorType = "conflict"
	ErrorTypePermission  ErrorType = "permission_denied"
	ErrorTypeUnsupported ErrorType = "unsupported_capability"
	ErrorTypeCapacity    ErrorType = "capacity_exceeded"
	ErrorTypeRemote      ErrorType = "remote_error"
	ErrorTypeInternal    ErrorType = "internal_error"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details)
}

// NewPermissionError creates a new permission denied error
func NewPermissionError(message string, details ...string) *AppError {
	return newAppError(ErrorTypePermission, http.StatusForbidden, message, details)
}

// NewUnsupportedError creates a new unsupported capability error
func NewUnsupportedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnsupported, http.StatusUnprocessableEntity, message, details)
}

// NewCapacityError creates a new capacity exceeded error
func NewCapacityError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCapacity, http.StatusConflict, message, details)
}

// NewRemoteError creates a new remote error for upstream call failures
func NewRemoteError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRemote, http.StatusBadGateway, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsConflictError checks if the error is a conflict error
func IsConflictError(err error) bool { return isType(err, ErrorTypeConflict) }

// IsPermissionError checks if the error is a permission denied error
func IsPermissionError(err error) bool { return isType(err, ErrorTypePermission) }

// IsUnsupportedError checks if the error is an unsupported capability error
func IsUnsupportedError(err error) bool { return isType(err, ErrorTypeUnsupported) }

// IsCapacityError checks if the error is a capacity exceeded error
func IsCapacityError(err error) bool { return isType(err, ErrorTypeCapacity) }

// IsRemoteError checks if the error is a remote error
func IsRemoteError(err error) bool { return isType(err, ErrorTypeRemote) }
