package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; wrap with fmt.Errorf("...: %w", ...) to add context.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation failed")
)
