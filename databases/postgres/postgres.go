// Package postgres provides a pgmodeler Database implementation for
// PostgreSQL, using database/sql over the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"go.uber.org/zap"

	"github.com/tasprorepo/pgmodeler"
)

// ErrInvalidConfig is returned when an invalid configuration is provided.
var ErrInvalidConfig = errors.New("postgres: expected *pgmodeler.PostgresConfig")

//nolint:gochecknoinits // Database self-registration pattern
func init() {
	pgmodeler.RegisterDatabase(pgmodeler.DatabasePostgres, func(cfg any) (pgmodeler.Database, error) {
		pgCfg, ok := cfg.(*pgmodeler.PostgresConfig)
		if !ok {
			return nil, fmt.Errorf("%w, got %T", ErrInvalidConfig, cfg)
		}

		return New(pgCfg)
	})
}

// Database implements pgmodeler.Database and pgmodeler.Transactional
// for PostgreSQL.
type Database struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for connection and query events.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(d *Database) {
		d.logger = logger
	}
}

// New opens a PostgreSQL connection from the given configuration and
// verifies connectivity.
func New(cfg *pgmodeler.PostgresConfig, opts ...Option) (*Database, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to open: %w", err)
	}

	d := &Database{db: db, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(d)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("postgres: failed to connect: %w", err)
	}

	d.logger.Infow("connected", "database", cfg.Database, "host", cfg.Host)

	return d, nil
}

// Name returns the backend identifier.
func (d *Database) Name() string {
	return pgmodeler.DatabasePostgres
}

// Execute runs a query and returns the result rows as column-name
// keyed maps.
func (d *Database) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	start := time.Now()

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	d.logger.Debugw("query", "rows", len(out), "elapsed", time.Since(start))

	return out, nil
}

// Begin starts a transaction. The importer uses a single read-only
// transaction so every catalog query sees the same snapshot.
func (d *Database) Begin(ctx context.Context) (pgmodeler.Transaction, error) {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("postgres: begin failed: %w", err)
	}

	return &transaction{tx: tx}, nil
}

// Close releases the connection pool.
func (d *Database) Close() error {
	return d.db.Close()
}

type transaction struct {
	tx *sql.Tx
}

func (t *transaction) Execute(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRows(rows)
}

func (t *transaction) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *transaction) Rollback(context.Context) error {
	return t.tx.Rollback()
}

// scanRows flattens a result set into column-name keyed maps.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("postgres: reading columns: %w", err)
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
			return nil, fmt.Errorf("postgres: scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = vals[i]
		}

		out = append(out, row)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("postgres: iterating rows: %w", err)
	}

	return out, nil
}
