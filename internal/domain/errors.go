package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested resource does not exist upstream.
var ErrNotFound = errors.New("resource not found")

// FetchError reports a failed upstream call: either a non-2xx response or
// a transport-level failure. Failed calls are never cached, so a caller
// that retries goes back to the network unconditionally.
type FetchError struct {
	// URL is the request URL that failed.
	URL string

	// Status is the HTTP status code, or zero for transport errors.
	Status int

	// Err is the underlying transport error, nil for status failures.
	Err error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
