package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrTransport covers network failures: nothing usable came back.
	ErrTransport = errors.New("server unreachable")
	// ErrMalformedResponse covers responses that are not JSON or do not
	// match the endpoint's schema.
	ErrMalformedResponse = errors.New("malformed server response")
)

// APIError is a well-formed JSON error response from the server.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

// MessageOr returns the server's message, or fallback when it sent none.
func (e *APIError) MessageOr(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	return fallback
}
