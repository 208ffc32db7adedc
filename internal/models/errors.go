package models

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP status
// codes; stores wrap driver errors into them so callers never string-match.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidArgument = errors.New("invalid argument")
)
