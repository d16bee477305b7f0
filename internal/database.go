package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const eventsSchema = `
CREATE TABLE IF NOT EXISTS events (
	trip_id  TEXT    NOT NULL,
	position INTEGER NOT NULL,
	date     TEXT    NOT NULL,
	kind     TEXT    NOT NULL DEFAULT '',
	heading  TEXT    NOT NULL DEFAULT '',
	data     TEXT    NOT NULL,
	PRIMARY KEY (trip_id, position)
);
CREATE INDEX IF NOT EXISTS idx_events_trip_date ON events (trip_id, date);
`

// OpenDatabase opens an existing SQLite database in read-only mode. A
// missing file is an error rather than a new empty database.
func OpenDatabase(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// OpenWritableDatabase opens or creates a SQLite database and applies the
// events schema.
func OpenWritableDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StorageError{Path: path, Op: "mkdir", Err: err}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the events table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(eventsSchema); err != nil {
		return &StorageError{Path: "events", Op: "migrate", Err: err}
	}
	return nil
}
