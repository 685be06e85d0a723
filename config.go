package pgmodeler

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .pgmodeler.yaml project file.
type Config struct {
	// Database-specific configurations. Only one should be set; its
	// presence determines which backend to use.
	Postgres *PostgresConfig `yaml:"postgres,omitempty"`
	SQLite   *SQLiteConfig   `yaml:"sqlite,omitempty"`

	// Import settings for the reverse-engineering command.
	Import ImportConfig `yaml:"import,omitempty"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Database string `yaml:"database,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslmode,omitempty"`
	// Alternative: full connection string, overrides the fields above.
	URI string `yaml:"uri,omitempty"`
}

// DSN returns the connection string for this configuration.
func (c *PostgresConfig) DSN() string {
	if c.URI != "" {
		return c.URI
	}

	host := c.Host
	if host == "" {
		host = "localhost"
	}

	port := c.Port
	if port == 0 {
		port = 5432
	}

	dsn := fmt.Sprintf("host=%s port=%d", host, port)
	if c.Database != "" {
		dsn += " dbname=" + c.Database
	}
	if c.User != "" {
		dsn += " user=" + c.User
	}
	if c.Password != "" {
		dsn += " password=" + c.Password
	}
	if c.SSLMode != "" {
		dsn += " sslmode=" + c.SSLMode
	}

	return dsn
}

// SQLiteConfig holds SQLite connection settings.
type SQLiteConfig struct {
	// Path to the database file, or ":memory:".
	Path string `yaml:"path"`
}

// ImportConfig holds settings for reverse engineering.
type ImportConfig struct {
	// Schemas restricts user-defined objects to the named schemas.
	// Empty means all non-catalog schemas.
	Schemas []string `yaml:"schemas,omitempty"`

	// Filter is an expression selecting which objects to import
	// (see CompileFilter).
	Filter string `yaml:"filter,omitempty"`

	// Out is the model file the import command writes.
	Out string `yaml:"out,omitempty"`

	// Templates is the directory holding .sch schema templates.
	Templates string `yaml:"templates,omitempty"`
}

// DatabaseName returns the configured backend name, or empty if none.
func (c *Config) DatabaseName() string {
	switch {
	case c.Postgres != nil:
		return DatabasePostgres
	case c.SQLite != nil:
		return DatabaseSQLite
	default:
		return ""
	}
}

// DatabaseConfig returns the backend-specific configuration matching
// DatabaseName.
func (c *Config) DatabaseConfig() any {
	switch {
	case c.Postgres != nil:
		return c.Postgres
	case c.SQLite != nil:
		return c.SQLite
	default:
		return nil
	}
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".pgmodeler.yaml", ".pgmodeler.yml", "pgmodeler.yaml", "pgmodeler.yml"}

// LoadConfig finds and loads the nearest .pgmodeler.yaml walking up
// from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
