// Package database provides database connectivity and schema management.
package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"           // Import postgres driver
	_ "github.com/mattn/go-sqlite3" // Import sqlite3 driver
	"github.com/rs/zerolog"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// DB wraps the SQL database connection
type DB struct {
	*sqlx.DB
	logger zerolog.Logger
}

// NewDB creates a new database connection
func NewDB(driver, dataSourceName string, logger zerolog.Logger) (*DB, error) {
	dsn := dataSourceName
	if driver == DriverSQLite {
		dsn = sqliteDSN(dataSourceName)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// Every connection to ":memory:" is its own database, and sqlite
		// serialises writers anyway.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, logger: logger.With().Str("component", "database").Logger()}, nil
}

// sqliteDSN enables foreign key enforcement, which sqlite leaves off by default
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := sqliteSchema
	if db.DriverName() == DriverPostgres {
		schema = postgresSchema
	}

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	db.logger.Info().Str("driver", db.DriverName()).Msg("Database schema initialized")
	return nil
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS playlists (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_playlists_created_at ON playlists(created_at);

	CREATE TABLE IF NOT EXISTS playlist_movies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tmdb_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		added_at DATETIME NOT NULL,
		playlist_id INTEGER NOT NULL,
		FOREIGN KEY (playlist_id) REFERENCES playlists (id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_playlist_movies_playlist_id ON playlist_movies(playlist_id);
	CREATE INDEX IF NOT EXISTS idx_playlist_movies_tmdb_id ON playlist_movies(tmdb_id)
`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS playlists (
		id SERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_playlists_created_at ON playlists(created_at);

	CREATE TABLE IF NOT EXISTS playlist_movies (
		id SERIAL PRIMARY KEY,
		tmdb_id INTEGER NOT NULL,
		title VARCHAR(200) NOT NULL,
		added_at TIMESTAMPTZ NOT NULL,
		playlist_id INTEGER NOT NULL REFERENCES playlists (id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_playlist_movies_playlist_id ON playlist_movies(playlist_id);
	CREATE INDEX IF NOT EXISTS idx_playlist_movies_tmdb_id ON playlist_movies(tmdb_id)
`
