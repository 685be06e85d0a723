package catalog

import "errors"

// Sentinel errors.
var (
	// ErrNoTemplates is returned when no query template file exists for
	// a backend dialect.
	ErrNoTemplates = errors.New("catalog: no query templates for dialect")

	// ErrNoTemplate is returned when a named query is missing from a
	// template set.
	ErrNoTemplate = errors.New("catalog: no such query template")

	// ErrObjectNotFound is returned by single-object lookups that match
	// nothing.
	ErrObjectNotFound = errors.New("catalog: object not found")
)
