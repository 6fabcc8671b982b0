package gunner

import (
	"errors"

	"github.com/jacoelho/gunner/internal/transport"
)

var (
	// ErrConfiguration indicates an invalid query. It is reported by the builder method
	// that received the bad value, through Build, and again when a run starts.
	ErrConfiguration = errors.New("configuration error")

	// ErrMalformedResponse indicates a page that is not a JSON document. The run stops.
	ErrMalformedResponse = transport.ErrMalformedResponse

	// ErrTransport wraps failures reported by the transport. Runs never retry.
	ErrTransport = errors.New("transport failure")

	// ErrCancelled indicates the context ended the run before it completed.
	ErrCancelled = errors.New("run cancelled")
)
