package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/tasprorepo/pgmodeler"
	"github.com/tasprorepo/pgmodeler/catalog"

	// Register database backends.
	_ "github.com/tasprorepo/pgmodeler/databases/postgres"
	_ "github.com/tasprorepo/pgmodeler/databases/sqlite"
)

// Connection errors.
var (
	ErrNoDatabase          = errors.New("no database configured (use --database or .pgmodeler.yaml)")
	ErrUnsupportedDatabase = errors.New("unsupported database")
)

// connectionFlags are shared by every command that talks to a backend.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "database",
			Aliases: []string{"d"},
			Usage:   "database backend (postgres, sqlite)",
		},
		&cli.StringFlag{
			Name:    "uri",
			Usage:   "PostgreSQL connection URI",
			Sources: cli.EnvVars("PGMODELER_URI"),
		},
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "database username",
			Sources: cli.EnvVars("PGMODELER_USER"),
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "database password",
			Sources: cli.EnvVars("PGMODELER_PASS"),
		},
		&cli.StringFlag{
			Name:  "dbname",
			Usage: "PostgreSQL database name",
		},
		&cli.StringFlag{
			Name:  "sqlite",
			Usage: "SQLite database file",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "project config file (default: nearest .pgmodeler.yaml)",
			Sources: cli.EnvVars("PGMODELER_CONFIG"),
		},
	}
}

// loadProjectConfig loads the project file named by --config, or the
// nearest one walking up from the working directory. A missing file is
// not an error unless explicitly named; every setting can come from
// flags.
func loadProjectConfig(cmd *cli.Command) (*pgmodeler.Config, error) {
	if path := cmd.String("config"); path != "" {
		return pgmodeler.LoadConfigFile(path)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil
	}

	cfg, err := pgmodeler.LoadConfig(cwd)
	if err != nil {
		return nil, nil
	}

	return cfg, nil
}

// openDatabase resolves the backend from flags and config (flag wins)
// and connects to it.
func openDatabase(cmd *cli.Command, cfg *pgmodeler.Config) (pgmodeler.Database, error) {
	databaseName := cmd.String("database")
	if databaseName == "" && cfg != nil {
		databaseName = cfg.DatabaseName()
	}

	// Infer the backend from connection flags when unnamed.
	if databaseName == "" {
		switch {
		case cmd.String("sqlite") != "":
			databaseName = pgmodeler.DatabaseSQLite
		case cmd.String("uri") != "" || cmd.String("dbname") != "":
			databaseName = pgmodeler.DatabasePostgres
		default:
			return nil, ErrNoDatabase
		}
	}

	var dbCfg any

	switch databaseName {
	case pgmodeler.DatabasePostgres:
		pgCfg := &pgmodeler.PostgresConfig{}
		if cfg != nil && cfg.Postgres != nil {
			pgCfg = cfg.Postgres
		}

		if uri := cmd.String("uri"); uri != "" {
			pgCfg.URI = uri
		}

		if username := cmd.String("username"); username != "" {
			pgCfg.User = username
		}

		if password := cmd.String("password"); password != "" {
			pgCfg.Password = password
		}

		if dbname := cmd.String("dbname"); dbname != "" {
			pgCfg.Database = dbname
		}

		dbCfg = pgCfg
	case pgmodeler.DatabaseSQLite:
		sqliteCfg := &pgmodeler.SQLiteConfig{}
		if cfg != nil && cfg.SQLite != nil {
			sqliteCfg = cfg.SQLite
		}

		if path := cmd.String("sqlite"); path != "" {
			sqliteCfg.Path = path
		}

		dbCfg = sqliteCfg
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, databaseName)
	}

	db, err := pgmodeler.NewDatabase(databaseName, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", databaseName, err)
	}

	return db, nil
}

// openCatalog connects to the backend and wraps it in a catalog.
func openCatalog(cmd *cli.Command, cfg *pgmodeler.Config) (pgmodeler.Database, *catalog.Catalog, error) {
	db, err := openDatabase(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.New(db)
	if err != nil {
		_ = db.Close()

		return nil, nil, err
	}

	return db, cat, nil
}
