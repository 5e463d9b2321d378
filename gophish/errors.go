package gophish

import (
	"errors"
	"fmt"
)

var ErrConnection = errors.New("unable to connect to GoPhish")

// APIError is returned when GoPhish answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GoPhish returned status %d (request %s)", e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("GoPhish returned status %d: %s (request %s)", e.StatusCode, e.Message, e.RequestID)
}
