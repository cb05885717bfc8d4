package domain

import "errors"

// Error kinds surfaced by the core services. Callers match with errors.Is;
// the HTTP layer maps them to status codes.
var (
	ErrValidation          = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("not allowed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
