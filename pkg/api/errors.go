package api

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies an error for retry decisions and caller reporting.
type ErrorKind string

const (
	ErrorKindAuthentication ErrorKind = "authentication"
	ErrorKindRateLimit      ErrorKind = "rate_limit"
	ErrorKindInvalidRequest ErrorKind = "invalid_request"
	ErrorKindTimeout        ErrorKind = "timeout"
	ErrorKindServer         ErrorKind = "server_error"
	ErrorKindNetwork        ErrorKind = "network"
	ErrorKindUnknown        ErrorKind = "unknown"
)

// Error is a structured pipeline error with a classification kind, an
// optional offending parameter, and for rate-limit errors an optional
// server-suggested wait before the next attempt.
type Error struct {
	Kind       ErrorKind     `json:"kind"`
	Param      string        `json:"param,omitempty"`
	Message    string        `json:"message"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s (param: %s)", e.Kind, e.Message, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewAuthenticationError creates an Error for missing or rejected credentials.
func NewAuthenticationError(message string) *Error {
	return &Error{Kind: ErrorKindAuthentication, Message: message}
}

// NewRateLimitError creates an Error for a rate-limited call. retryAfter is
// the server-suggested (or limiter-computed) wait; zero means unknown.
func NewRateLimitError(message string, retryAfter time.Duration) *Error {
	return &Error{Kind: ErrorKindRateLimit, Message: message, RetryAfter: retryAfter}
}

// NewInvalidRequestError creates an Error for invalid request parameters.
func NewInvalidRequestError(param, message string) *Error {
	return &Error{Kind: ErrorKindInvalidRequest, Param: param, Message: message}
}

// NewTimeoutError creates an Error for a transport-level timeout or abort.
func NewTimeoutError(message string) *Error {
	return &Error{Kind: ErrorKindTimeout, Message: message}
}

// NewServerError creates an Error for a backend 5xx failure.
func NewServerError(message string) *Error {
	return &Error{Kind: ErrorKindServer, Message: message}
}

// NewNetworkError creates an Error for a transport failure before any
// response was received.
func NewNetworkError(message string) *Error {
	return &Error{Kind: ErrorKindNetwork, Message: message}
}

// NewUnknownError creates an Error for an unclassified failure.
func NewUnknownError(message string) *Error {
	return &Error{Kind: ErrorKindUnknown, Message: message}
}

// KindOf returns the classification of err, or ErrorKindUnknown when err is
// not a pipeline *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrorKindUnknown
}

// RetryAfterOf returns the server-suggested wait carried by a rate-limit
// error, or zero when none is present.
func RetryAfterOf(err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == ErrorKindRateLimit {
		return e.RetryAfter
	}
	return 0
}

// IsRetryable reports whether an error classification is eligible for a
// retry attempt. Authentication and invalid-request failures are permanent:
// repeating the identical call cannot succeed.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case ErrorKindAuthentication, ErrorKindInvalidRequest:
		return false
	default:
		return true
	}
}
