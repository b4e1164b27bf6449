package memos

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies transport and mapping failures so callers can branch
// without string matching.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindNotFound          ErrorKind = "not_found"
	KindRateLimited       ErrorKind = "rate_limited"
	KindTimeout           ErrorKind = "timeout"
	KindNetwork           ErrorKind = "network"
	KindServer            ErrorKind = "server"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknown           ErrorKind = "unknown"
)

// APIError is the structured failure returned by the transport client and
// the mapper. Message never contains the access token.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Op         string
	Attempts   int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("memos %s: %s (%s, status %d, attempts %d)", e.Op, e.Message, e.Kind, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("memos %s: %s (%s, attempts %d)", e.Op, e.Message, e.Kind, e.Attempts)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// retryable reports whether a failure class is expected to succeed on retry.
func (e *APIError) retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindTimeout, KindNetwork, KindServer:
		return true
	}
	return false
}

// KindOf extracts the error kind, defaulting to unknown for foreign errors.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a remote not-found.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// kindFromStatus maps an HTTP status code to an error kind.
func kindFromStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindUnknown
	}
	return KindUnknown
}

func messageForKind(kind ErrorKind, status int) string {
	switch kind {
	case KindUnauthorized:
		return "authentication failed: check that your access token is valid and not expired"
	case KindNotFound:
		return "resource not found"
	case KindRateLimited:
		return "rate limit exceeded"
	case KindServer:
		return fmt.Sprintf("remote server error (status %d)", status)
	}
	return fmt.Sprintf("unexpected status %d", status)
}
