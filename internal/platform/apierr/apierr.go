package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes returned in the error envelope.
const (
	CodeNotConfigured  = "server_not_configured"
	CodeNoJSON         = "no_json_found"
	CodeInvalidJSON    = "invalid_model_json"
	CodeUnexpected     = "unexpected_error"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
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

// NotConfigured reports a missing credential before any upstream call is made.
func NotConfigured(key string) *Error {
	return New(http.StatusInternalServerError, CodeNotConfigured,
		fmt.Errorf("Server not configured (missing %s).", key))
}

func Upstream(code, msg string, cause error) *Error {
	return New(http.StatusBadGateway, code, &wrapped{msg: msg, cause: cause})
}

func Unexpected(cause error) *Error {
	msg := "Unexpected error"
	if cause != nil {
		msg = "Unexpected error: " + cause.Error()
	}
	return New(http.StatusInternalServerError, CodeUnexpected, &wrapped{msg: msg, cause: cause})
}

// As extracts an *Error from err, falling back to a generic 500.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Unexpected(err)
}

// wrapped keeps a user-facing message while preserving the cause for errors.Is.
type wrapped struct {
	msg   string
	cause error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.cause }
