package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation is a caller-fault error: malformed or out-of-bound input.
func Validation(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// NotFound means a referenced key does not exist.
func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

// Conflict is raised only when a true race is detected and the caller
// should retry. Idempotent operations never return it just because the
// target state already holds.
func Conflict(code string, err error) *Error {
	return New(http.StatusConflict, code, err)
}

func IsValidation(err error) bool { return hasStatus(err, http.StatusBadRequest) }
func IsNotFound(err error) bool   { return hasStatus(err, http.StatusNotFound) }
func IsConflict(err error) bool   { return hasStatus(err, http.StatusConflict) }

func hasStatus(err error, status int) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status == status
	}
	return false
}

// Status maps any error to an HTTP status, defaulting to 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine code of an error, or fallback.
func CodeOf(err error, fallback string) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return fallback
}
