package importer

import "errors"

// Sentinel errors.
var (
	// ErrNoCatalog is returned when Run is called without a catalog.
	ErrNoCatalog = errors.New("importer: no catalog configured")

	// ErrMaxFailures stops execution when the failure limit is hit.
	ErrMaxFailures = errors.New("importer: maximum failures reached")
)
