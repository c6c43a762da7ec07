package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing the same code so that clones of a predefined
// error satisfy errors.Is against the original.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound            = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden           = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized        = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict            = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation          = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal            = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss           = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrRateLimited         = New("RATE_LIMITED", http.StatusTooManyRequests, "too many submissions, try again later")
	ErrBatchNotFound       = New("BATCH_NOT_FOUND", http.StatusNotFound, "invalid batch")
	ErrWindowClosed        = New("WINDOW_CLOSED", http.StatusBadRequest, "this feedback period is not active")
	ErrEmptyResponse       = New("EMPTY_RESPONSE", http.StatusBadRequest, "feedback responses are required")
	ErrFacultyNotInBatch   = New("FACULTY_NOT_IN_BATCH", http.StatusBadRequest, "faculty is not assigned to this batch")
	ErrInvalidRating       = New("INVALID_RATING", http.StatusBadRequest, "invalid rating")
	ErrStorageUnavailable  = New("STORAGE_UNAVAILABLE", http.StatusServiceUnavailable, "storage temporarily unavailable")
	ErrConstraintViolation = New("CONSTRAINT_VIOLATION", http.StatusInternalServerError, "feedback could not be stored")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying safe-to-display details.
func WithDetails(err *Error, details map[string]interface{}) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = make(map[string]interface{}, len(details))
	for k, v := range details {
		clone.Details[k] = v
	}
	return &clone
}

// Retryable reports whether the caller may safely retry the failed request.
func Retryable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
