package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates the server could not be reached at all
	// (network failure, refused connection, timeout before any response).
	ErrUnavailable = errors.New("server unavailable")
)

// APIError carries a non-success HTTP response: the numeric status, a
// human-readable message (the server's "detail" field when present, the
// HTTP status text otherwise), and the parsed response body.
type APIError struct {
	Status  int
	Message string
	Body    any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err if it is an *APIError,
// and 0 otherwise.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf returns the user-facing message for err: the server detail for
// API errors, the plain error text otherwise. Transport errors are never
// swallowed; they always surface as visible text.
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
