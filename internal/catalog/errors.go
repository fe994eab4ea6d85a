package catalog

import (
	"errors"
	"fmt"
)

// Fetch error classes. A FetchError wraps exactly one of these.
var (
	// ErrConnection means the backend could not be reached at all (DNS, refused, reset, timeout).
	ErrConnection = errors.New("backend connection failed")

	// ErrBadStatus means the backend answered with a non-2xx status.
	ErrBadStatus = errors.New("unexpected response status")

	// ErrMalformed means the response body was not a JSON array of records.
	ErrMalformed = errors.New("malformed page response")

	// ErrInvalidBaseURL is returned by NewClient for unusable base URLs.
	ErrInvalidBaseURL = errors.New("invalid catalog base URL")
)

// FetchError describes a failed page fetch.
type FetchError struct {
	// Page is the requested page index.
	Page int

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Err is the classified cause (wraps one of the Err* sentinels).
	Err error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching page %d: status %d: %v", e.Page, e.Status, e.Err)
	}
	return fmt.Sprintf("fetching page %d: %v", e.Page, e.Err)
}

// Unwrap exposes the classified cause to errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a transport-level failure.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}
