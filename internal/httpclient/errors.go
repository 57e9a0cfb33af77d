package httpclient

import (
	"errors"
	"fmt"
)

// ErrEmptyJSONBody is returned when a json response has no body to decode.
var ErrEmptyJSONBody = errors.New("empty json response body")

// StatusError is returned for responses with a 4xx or 5xx status code.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}
