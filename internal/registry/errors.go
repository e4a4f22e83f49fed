package registry

import "errors"

var (
	// ErrNotFound is returned by Get and Remove when no record carries
	// the requested identifier. A search that matches nothing returns an
	// empty slice instead.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord is returned when a record fails field validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrMalformedDocument is returned by LoadFromFile when the JSON
	// document is structurally invalid or carries unusable records. The
	// store keeps its previous contents.
	ErrMalformedDocument = errors.New("malformed store document")
)
