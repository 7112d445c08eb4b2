package fetcher

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrServiceUnavailable matches a *StatusError carrying HTTP 503.
// Use errors.Is to test for it.
var ErrServiceUnavailable = errors.New("MRIQC server is temporarily unavailable")

// StatusError reports a non-2xx response from the MRIQC server.
type StatusError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// URL is the query that produced the response.
	URL string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("query %s returned HTTP %d %s",
		e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports whether target is ErrServiceUnavailable and the status is 503.
func (e *StatusError) Is(target error) bool {
	return target == ErrServiceUnavailable && e.StatusCode == http.StatusServiceUnavailable
}
