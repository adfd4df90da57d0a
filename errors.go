package lookup

import "errors"

var (
	// ErrLookupNil is returned when no customer lookup is configured.
	ErrLookupNil = errors.New("customer lookup cannot be nil")

	// ErrInvalidPayload indicates an invocation payload that could not be decoded.
	ErrInvalidPayload = errors.New("invocation payload is invalid")

	// ErrMarshalResponse wraps failures while encoding the result set.
	ErrMarshalResponse = errors.New("failed to marshal response")
)
