package client

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that a request exceeded the client-side deadline. It is
// deliberately distinct from generic network failure so callers can tell the
// user which one happened.
var ErrTimeout = errors.New("request timed out")

// ErrPathNotAllowed reports a request for a path outside the endpoint
// whitelist. The check runs locally, before any network call — it is a
// defense-in-depth guard, not a security boundary.
var ErrPathNotAllowed = errors.New("path not allowed")

// HTTPError represents a non-2xx HTTP response from the API. Detail carries
// the server's "detail" field when present, otherwise the raw response body.
type HTTPError struct {
	StatusCode int
	Detail     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}
