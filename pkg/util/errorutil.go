package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("INVALID_INPUT", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewAlreadyRedeemed reports a valid id in the wrong state. The redeem
// route answers 400 for it, distinct in code and message from NOT_FOUND.
func NewAlreadyRedeemed(message string) error {
	return NewDomainError("ALREADY_REDEEMED", message, http.StatusBadRequest, nil)
}

// NewDecodeFailure reports that no optical code was found in an image.
// User-correctable: the operator may retry with a clearer image.
func NewDecodeFailure(message string) error {
	return NewDomainError("DECODE_FAILED", message, http.StatusUnprocessableEntity, nil)
}

// NewDeviceUnavailable reports a failed camera acquisition; callers fall
// back to another scan mode.
func NewDeviceUnavailable(message string) error {
	return NewDomainError("DEVICE_UNAVAILABLE", message, http.StatusServiceUnavailable, nil)
}

// NewStorageFailure wraps a transient persistence error. The whole
// operation may be retried by the caller; partial success is never implied.
func NewStorageFailure(err error) error {
	return &DomainError{
		Code:       "STORAGE_FAILURE",
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewStorageFailure(err).(*DomainError); ok {
			de.HTTPStatus = http.StatusGatewayTimeout
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
