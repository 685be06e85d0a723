package pgmodeler

import (
	"context"
	"fmt"
)

// Database is a connection to a server whose system catalog can be
// queried. Implementations live under databases/ and self-register.
type Database interface {
	// Name returns the backend identifier (e.g., "postgres", "sqlite").
	Name() string

	// Execute runs a query with positional arguments and returns the
	// result rows as column-name keyed maps.
	Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	// Close releases the connection.
	Close() error
}

// Transaction represents an active database transaction.
type Transaction interface {
	Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Transactional is an optional interface for backends supporting
// transactions. The importer uses it to take a consistent catalog
// snapshot when available.
type Transactional interface {
	Database

	Begin(ctx context.Context) (Transaction, error)
}

// DatabaseFactory creates a Database from a backend-specific config
// (e.g., *PostgresConfig, *SQLiteConfig).
type DatabaseFactory func(cfg any) (Database, error)

var databases = make(map[string]DatabaseFactory)

// RegisterDatabase registers a backend factory by name.
func RegisterDatabase(name string, factory DatabaseFactory) {
	databases[name] = factory
}

// NewDatabase creates a backend instance by name.
func NewDatabase(name string, cfg any) (Database, error) {
	factory, ok := databases[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDatabase, name)
	}

	return factory(cfg)
}

// RegisteredDatabases returns the names of all registered backends.
func RegisteredDatabases() []string {
	names := make([]string, 0, len(databases))
	for name := range databases {
		names = append(names, name)
	}

	return names
}
