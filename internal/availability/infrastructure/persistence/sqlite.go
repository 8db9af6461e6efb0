package persistence

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// sqliteSchema creates the provider tables for local mode. Times are
// stored as RFC3339 strings, clock times as "HH:MM".
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS space_schedules (
    resource_id TEXT NOT NULL,
    day_of_week INTEGER NOT NULL,
    is_open     INTEGER NOT NULL DEFAULT 0,
    opens_at    TEXT NOT NULL DEFAULT '00:00',
    closes_at   TEXT NOT NULL DEFAULT '00:00',
    timezone    TEXT NOT NULL DEFAULT 'UTC',
    PRIMARY KEY (resource_id, day_of_week)
);

CREATE TABLE IF NOT EXISTS reservations (
    id          TEXT PRIMARY KEY,
    resource_id TEXT NOT NULL,
    renter_id   TEXT NOT NULL,
    start_time  TEXT NOT NULL,
    end_time    TEXT NOT NULL,
    status      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reservations_resource_time
    ON reservations (resource_id, start_time);
`

// OpenSQLite opens (or creates) a local SQLite database and ensures the
// provider schema exists. In-memory databases are pinned to a single
// connection so the schema survives pool churn.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the provider tables if missing.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("ensure sqlite schema: %w", err)
	}
	return nil
}
