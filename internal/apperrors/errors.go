package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a stable machine-readable error tag returned to API clients.
type Kind string

const (
	KindValidation            Kind = "VALIDATION"
	KindNotFound              Kind = "NOT_FOUND"
	KindConflict              Kind = "CONFLICT"
	KindInvalidState          Kind = "INVALID_STATE"
	KindNotActive             Kind = "NOT_ACTIVE"
	KindAlreadyActive         Kind = "ALREADY_ACTIVE"
	KindNoAllocation          Kind = "NO_ALLOCATION"
	KindTerminalState         Kind = "TERMINAL_STATE"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindStoreUnavailable      Kind = "STORE_UNAVAILABLE"
)

// AppError carries a kind tag alongside the human-readable message.
// STORE_UNAVAILABLE is the only kind clients may retry automatically.
type AppError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *AppError {
	return New(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *AppError {
	return New(KindNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *AppError {
	return New(KindConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) *AppError {
	return New(KindInvalidState, format, args...)
}

func NotActive(format string, args ...interface{}) *AppError {
	return New(KindNotActive, format, args...)
}

func AlreadyActive(format string, args ...interface{}) *AppError {
	return New(KindAlreadyActive, format, args...)
}

func NoAllocation(format string, args ...interface{}) *AppError {
	return New(KindNoAllocation, format, args...)
}

func TerminalState(format string, args ...interface{}) *AppError {
	return New(KindTerminalState, format, args...)
}

func InsufficientInventory(format string, args ...interface{}) *AppError {
	return New(KindInsufficientInventory, format, args...)
}

func StoreUnavailable(err error) *AppError {
	return New(KindStoreUnavailable, "store unavailable: %v", err)
}

// As unwraps err into an *AppError if it is one.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error kind to its HTTP status class.
// State-machine guards and business-rule violations are all 409:
// the request was well-formed but the entity is not in a state
// that permits it.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidState, KindNotActive, KindAlreadyActive,
		KindNoAllocation, KindTerminalState, KindInsufficientInventory:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
