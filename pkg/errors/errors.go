package errors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound          = "NOT_FOUND"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL_ERROR"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodePermissionDenied  = "PERMISSION_DENIED"
	CodeDuplicateOpenDeal = "DUPLICATE_OPEN_DEAL"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnverified        = "UNVERIFIED"
	CodeTransient         = "TRANSIENT_STORE_FAILURE"
	CodePartialFailure    = "PARTIAL_FAILURE"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	// Step names the sub-operation of a multi-record sequence that failed.
	Step string
	Err  error
}

func (e *AppError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s (step=%s)", e.Code, e.Message, e.Step)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Forbidden(message string, err error) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  http.StatusForbidden,
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  http.StatusConflict,
	}
}

func TooManyRequests(message string) *AppError {
	return &AppError{
		Code:    CodeTooManyRequests,
		Message: message,
		Status:  http.StatusTooManyRequests,
	}
}

// PermissionDenied is returned when the actor has the wrong role for an
// action or is not a participant of the record.
func PermissionDenied(message string) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

func DuplicateOpenDeal() *AppError {
	return &AppError{
		Code:    CodeDuplicateOpenDeal,
		Message: "You already have an active deal for this item. Check your Deals page.",
		Status:  http.StatusConflict,
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("Deal cannot move from %s to %s", from, to),
		Status:  http.StatusUnprocessableEntity,
	}
}

func Unverified() *AppError {
	return &AppError{
		Code:    CodeUnverified,
		Message: "Please verify your email address before continuing",
		Status:  http.StatusForbidden,
	}
}

func TransientStoreFailure(message string, err error) *AppError {
	return &AppError{
		Code:    CodeTransient,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// PartialFailure reports that the leading write of a sequence committed but
// the named downstream step did not. Callers retry only that step.
func PartialFailure(step, message string, err error) *AppError {
	return &AppError{
		Code:    CodePartialFailure,
		Message: message,
		Status:  http.StatusAccepted,
		Step:    step,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// StepOf returns the failed step recorded on err, if any.
func StepOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Step
	}
	return ""
}

// WithStep tags err with the sequence step it happened in. Transient store
// failures keep their code so callers can tell retryable from fatal.
func WithStep(step string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		tagged := *appErr
		tagged.Step = step
		return &tagged
	}
	return &AppError{
		Code:    CodeInternal,
		Message: "Unexpected failure",
		Status:  http.StatusInternalServerError,
		Step:    step,
		Err:     err,
	}
}
