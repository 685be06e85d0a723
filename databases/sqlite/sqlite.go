// Package sqlite provides a pgmodeler Database implementation for
// SQLite. Its catalog lives in sqlite_master and the pragma table
// functions, so only relation-level object types are discoverable.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 database/sql driver

	"github.com/tasprorepo/pgmodeler"
)

// ErrInvalidConfig is returned when an invalid configuration is provided.
var ErrInvalidConfig = errors.New("sqlite: expected *pgmodeler.SQLiteConfig")

//nolint:gochecknoinits // Database self-registration pattern
func init() {
	pgmodeler.RegisterDatabase(pgmodeler.DatabaseSQLite, func(cfg any) (pgmodeler.Database, error) {
		sqCfg, ok := cfg.(*pgmodeler.SQLiteConfig)
		if !ok {
			return nil, fmt.Errorf("%w, got %T", ErrInvalidConfig, cfg)
		}

		return New(sqCfg)
	})
}

// Database implements pgmodeler.Database for SQLite.
type Database struct {
	db *sql.DB
}

// New opens a SQLite database from the given configuration.
func New(cfg *pgmodeler.SQLiteConfig) (*Database, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}

	err = db.Ping()
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("sqlite: failed to open %s: %w", path, err)
	}

	return &Database{db: db}, nil
}

// Name returns the backend identifier.
func (d *Database) Name() string {
	return pgmodeler.DatabaseSQLite
}

// Execute runs a query and returns the result rows as column-name
// keyed maps.
func (d *Database) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading columns: %w", err)
	}

	var out []map[string]any

	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))

		for i := range vals {
			ptrs[i] = &vals[i]
		}

		err := rows.Scan(ptrs...)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = vals[i]
		}

		out = append(out, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("sqlite: iterating rows: %w", err)
	}

	return out, nil
}

// Exec runs a statement without returning rows. Tests use it to build
// fixture schemas.
func (d *Database) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite: exec failed: %w", err)
	}

	return nil
}

// Close releases the connection.
func (d *Database) Close() error {
	return d.db.Close()
}
