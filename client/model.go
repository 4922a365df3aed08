package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// defaultContentType seeds every Client's default request headers.
const defaultContentType = "application/json; charset=UTF-8"

// maxDrainSize caps how much of an unread body Close discards before
// giving up on connection reuse.
const maxDrainSize = 64 << 10 // 64KB

var (
	// ErrInvalidURI is returned for an empty or unparseable request URI or base address.
	ErrInvalidURI = errors.New("incorrect URI string provided")
	// ErrInvalidOptions is returned when the assembled request options fail validation.
	ErrInvalidOptions = errors.New("invalid request options")
	// ErrTransport wraps connection-level failures reported by the transport.
	ErrTransport = errors.New("transport failure")
	// ErrSerialization is returned when a request body cannot be encoded.
	ErrSerialization = errors.New("encoding request body")
	// ErrRead is returned when content is read from an unsuccessful response.
	ErrRead = errors.New("request did not succeed")
	// ErrContentConsumed is returned when content is read a second time.
	ErrContentConsumed = errors.New("content already consumed")
	// ErrContentType is returned when JSON is requested from non-JSON content.
	ErrContentType = errors.New("not application/json content-type")
	// ErrParse is returned when the content is not valid JSON.
	ErrParse = errors.New("parsing content")
	// ErrUnsuccessfulStatus is the sentinel wrapped by [StatusError].
	ErrUnsuccessfulStatus = errors.New("request did not succeed")
	// ErrAuthFailure is joined with [ErrUnsuccessfulStatus] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// StatusError is returned by [Response.EnsureSuccessStatusCode] when
// the status code is outside [200, 400).
type StatusError struct {
	StatusCode   int
	ReasonPhrase string
	Err          error
}

func newStatusError(code int, reason string) *StatusError {
	err := ErrUnsuccessfulStatus
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		err = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnsuccessfulStatus)
	}

	return &StatusError{
		StatusCode:   code,
		ReasonPhrase: reason,
		Err:          err,
	}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v. status code: %d. reason phrase: %s", e.Err, e.StatusCode, e.ReasonPhrase)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// FieldError describes one request option that failed validation.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors is the detail carried alongside [ErrInvalidOptions].
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Field + ": " + f.Err
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failed fields keyed by name.
func (fe FieldErrors) Fields() map[string]string {
	m := make(map[string]string, len(fe))
	for _, f := range fe {
		m[f.Field] = f.Err
	}
	return m
}
