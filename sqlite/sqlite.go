// Package sqlite stores harvest runs in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB is a SQLite database holding harvest runs.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for the file at path. ":memory:" keeps the
// database in memory for the life of the connection.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas run on every new connection, in order. The journal mode is
// only switched for file databases.
func (db *DB) pragmas() []string {
	p := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	if db.path != ":memory:" {
		p = append(p, "PRAGMA journal_mode = WAL")
	}
	return p
}

// Open connects to the database and creates the schema if it is missing.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open database %s: %w", db.path, err)
	}
	// One writer at a time; a single connection also keeps ":memory:"
	// databases from splitting.
	conn.SetMaxOpenConns(1)

	fail := func(err error) error {
		conn.Close()
		return err
	}
	if err := conn.Ping(); err != nil {
		return fail(fmt.Errorf("connect to database %s: %w", db.path, err))
	}
	for _, pragma := range db.pragmas() {
		if _, err := conn.Exec(pragma); err != nil {
			return fail(fmt.Errorf("%s: %w", pragma, err))
		}
	}

	db.db = conn
	if err := db.createSchema(); err != nil {
		return fail(fmt.Errorf("create schema: %w", err))
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext runs a query expected to return at most one row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext runs a query.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext runs a statement without rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// createSchema creates the run tables. Pages and assets belong to a run
// and go with it.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'pending',
			branding TEXT NOT NULL DEFAULT '',
			manifest TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			committed_at TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS pages (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			slug TEXT NOT NULL,
			url TEXT NOT NULL,
			content_hash TEXT NOT NULL DEFAULT '',
			data TEXT NOT NULL,
			PRIMARY KEY (run_id, slug)
		);

		CREATE TABLE IF NOT EXISTS assets (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			file_name TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (run_id, file_name)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status, committed_at);
	`

	_, err := db.db.Exec(schema)
	return err
}
