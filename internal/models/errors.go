package models

import "errors"

// Error taxonomy shared across services. Handlers map these to HTTP
// statuses; ownership failures deliberately surface as ErrNotFound so
// responses don't reveal whether an ID exists.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotReady     = errors.New("not ready")
	ErrConflict     = errors.New("conflict")

	// ErrUpstreamUnavailable marks question service failures. Callers
	// recover with a deterministic fallback and never surface it.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
