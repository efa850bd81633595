package services

import "errors"

// Domain errors returned by the service layer. Handlers map these onto HTTP
// statuses; anything not matching one of them is treated as a store failure
// and surfaced as an opaque server error.
var (
	// ErrValidation indicates bad or missing input the caller can correct.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized indicates the request carried no usable credential.
	ErrUnauthorized = errors.New("access denied")
	// ErrForbidden indicates an authenticated caller who does not own the
	// target record.
	ErrForbidden = errors.New("not authorized for this product")
	// ErrNotFound indicates no such product or username. A malformed id is
	// reported the same way as an unknown one.
	ErrNotFound = errors.New("not found")
)
