package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCandidate is the sentinel wrapped by every ValidationError.
var ErrInvalidCandidate = errors.New("invalid candidate")

// ErrUnknownRegion is wrapped when a referenced region id is not declared in the catalog,
// such as a catalog default that names no region.
var ErrUnknownRegion = errors.New("unknown region")

// ErrInvalidCatalog is returned when a set of region definitions cannot form a catalog.
var ErrInvalidCatalog = errors.New("invalid region catalog")

// ValidationError describes a malformed node or link candidate.
// It is rejected locally and never aborts the rest of a batch.
type ValidationError struct {
	Kind   string // "node" or "link"
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s candidate: %s %s", e.Kind, e.Field, e.Reason)
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrInvalidCandidate).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidCandidate
}
