package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrRequestFailed        = errors.New("fetching suggestions failed")
	ErrStorage              = errors.New("storage operation failed")
	ErrMissingConfiguration = errors.New("missing required configuration")
	ErrInvalidResponse      = errors.New("invalid response from upstream service")
)

// HTTPError reports a non-successful response from the directory service.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// IsHTTPStatus reports whether err wraps an HTTPError with the given status code.
func IsHTTPStatus(err error, status int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == status
	}
	return false
}
