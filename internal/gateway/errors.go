package gateway

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for 401 responses and for authenticated
// endpoints called without a stored token.
var ErrUnauthorized = errors.New("not authorized, please log in again")

// HTTPError is a response with a status of 400 or above, or a response whose
// envelope reports success=false.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// ResponseDecodeError is a response body that could not be decoded.
type ResponseDecodeError struct {
	Endpoint string
	Err      error
}

func (e *ResponseDecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s response: %v", e.Endpoint, e.Err)
}

func (e *ResponseDecodeError) Unwrap() error {
	return e.Err
}

// NetworkError is a request that did not produce a response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is one of the gateway's fetch failures.
func IsFetchError(err error) bool {
	var (
		httpErr   *HTTPError
		decodeErr *ResponseDecodeError
		netErr    *NetworkError
	)
	return errors.Is(err, ErrUnauthorized) ||
		errors.As(err, &httpErr) ||
		errors.As(err, &decodeErr) ||
		errors.As(err, &netErr)
}

// outcome labels err for request metrics.
func outcome(err error) string {
	var (
		httpErr   *HTTPError
		decodeErr *ResponseDecodeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &httpErr):
		return "http_error"
	case errors.As(err, &decodeErr):
		return "decode_error"
	default:
		return "network_error"
	}
}
