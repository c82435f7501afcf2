// Package domain holds the sentinel errors shared by every service
// and adapter. Callers classify failures with errors.Is and the HTTP
// layer maps them onto status codes.
package domain

import "errors"

var (
	// ErrNotFound marks lookups of entities that do not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks lost races, e.g. a task claimed by another
	// annotator between scan and claim.
	ErrConflict = errors.New("conflict: resource was modified by another request")

	// ErrValidation marks violated operation preconditions.
	ErrValidation = errors.New("validation failed")
)
