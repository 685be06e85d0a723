package pgmodeler

import "errors"

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .pgmodeler.yaml is found.
	ErrConfigNotFound = errors.New("pgmodeler: no .pgmodeler.yaml found")

	// ErrUnknownDatabase is returned when an unregistered database
	// backend is requested.
	ErrUnknownDatabase = errors.New("pgmodeler: unknown database")

	// ErrUnknownObjectType is returned for identifiers that do not name
	// a catalog object type.
	ErrUnknownObjectType = errors.New("pgmodeler: unknown object type")

	// ErrInvalidFilter is returned when an object filter expression does
	// not compile or does not evaluate to a boolean.
	ErrInvalidFilter = errors.New("pgmodeler: invalid filter expression")
)
