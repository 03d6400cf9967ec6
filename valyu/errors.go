package valyu

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned by NewClient when no API key was provided
// and the VALYU_API_KEY environment variable is unset.
var ErrMissingAPIKey = errors.New("valyu: VALYU_API_KEY is not set")

// ValidationError reports a request parameter that was rejected before any
// network call. No transaction was attempted, so there is no transaction id
// to correlate with.
type ValidationError struct {
	Field   string // parameter that failed validation
	Message string // human-readable reason
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("valyu: invalid %s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// APIError is a non-success response from the Valyu API. Callers normally
// never see it directly: endpoint methods fold it into the response object
// with Success=false. It carries the transaction id when the server
// acknowledged the request, so failed calls can still be traced by support.
type APIError struct {
	StatusCode int
	Message    string
	TxID       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP Error: %d", e.StatusCode)
}
