// Package errors defines the application error vocabulary. Every error that
// crosses a use case boundary is an AppError carrying its HTTP status, so
// handlers map errors to responses without switching on sentinel values.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "validation_error"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeConflict     ErrorType = "conflict"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"
	ErrorTypeRateLimited  ErrorType = "rate_limited"
	ErrorTypeInternal     ErrorType = "internal_error"
	ErrorTypeBadRequest   ErrorType = "bad_request"
)

var httpStatusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeRateLimited:  http.StatusTooManyRequests,
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypeBadRequest:   http.StatusBadRequest,
}

// AppError is a typed application error with an HTTP status code.
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, message string, details ...string) *AppError {
	e := &AppError{
		Type:    errType,
		Message: message,
		Code:    httpStatusByType[errType],
	}
	if len(details) > 0 {
		e.Details = details[0]
	}
	return e
}

func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, message, details...)
}

func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, message, details...)
}

func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, message, details...)
}

func NewUnauthorizedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeUnauthorized, message, details...)
}

func NewForbiddenError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeForbidden, message, details...)
}

func NewRateLimitedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeRateLimited, message, details...)
}

func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, message, details...)
}

func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, message, details...)
}

// GetAppError unwraps err to its AppError, or nil when err is not one.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

func isType(err error, t ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == t
}

func IsNotFoundError(err error) bool    { return isType(err, ErrorTypeNotFound) }
func IsValidationError(err error) bool  { return isType(err, ErrorTypeValidation) }
func IsRateLimitedError(err error) bool { return isType(err, ErrorTypeRateLimited) }

// IsDuplicateError reports whether err is a unique key violation from mysql
// or sqlite. The drivers expose no shared sentinel, so this matches on the
// message text.
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
