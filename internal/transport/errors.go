package transport

import "errors"

var (
	// ErrMalformedResponse indicates a response body that is not a JSON document.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrStatus indicates a non-2xx HTTP status.
	ErrStatus = errors.New("unexpected status")

	// ErrRequest indicates the request could not be built or sent.
	ErrRequest = errors.New("request failed")
)
