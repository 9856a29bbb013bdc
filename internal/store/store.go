package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Supported database drivers.
const (
	DriverSQLite = "sqlite3"
	DriverOracle = "oracle"
)

// Config selects and locates the backing database.
type Config struct {
	// Driver is DriverSQLite or DriverOracle. Empty means DriverSQLite.
	Driver string

	// Path is the SQLite database file. Ignored for Oracle.
	Path string

	// Oracle holds connection settings for DriverOracle.
	Oracle OracleConfig
}

// Store persists taxpayer records in a SQL database.
// It implements the session's RecordStore contract.
type Store struct {
	db      *sql.DB
	dialect *dialect
}

// Open connects to the configured database and prepares the schema.
//
// For SQLite the file is created if it doesn't exist and migrations run
// automatically. This function is idempotent - safe to call multiple times
// on the same database.
func Open(cfg Config) (*Store, error) {
	d, dsn, err := resolve(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if d.maxConns > 0 {
		db.SetMaxOpenConns(d.maxConns)
		db.SetMaxIdleConns(d.maxConns)
	}

	if err := d.prepare(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// OpenSQLite opens a SQLite-backed store at path.
func OpenSQLite(path string) (*Store, error) {
	return Open(Config{Driver: DriverSQLite, Path: path})
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver reports which database driver backs the store.
func (s *Store) Driver() string {
	return s.dialect.driver
}

// resolve picks the dialect and DSN for cfg.
func resolve(cfg Config) (*dialect, string, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		if cfg.Path == "" {
			return nil, "", fmt.Errorf("sqlite: database path is required")
		}
		return sqliteDialect, cfg.Path, nil
	case DriverOracle:
		dsn, err := cfg.Oracle.DSN()
		if err != nil {
			return nil, "", err
		}
		return oracleDialect, dsn, nil
	default:
		return nil, "", fmt.Errorf("unsupported driver %q: must be %q or %q", cfg.Driver, DriverSQLite, DriverOracle)
	}
}
