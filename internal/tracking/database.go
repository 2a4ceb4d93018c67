package tracking

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// NewDatabase opens the playback history database at the specified path
// and applies the schema
func NewDatabase(dbPath string) (*sql.DB, error) {
	// Ensure directory exists if not in-memory
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply pragmas first
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA user_version = 1",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// ensureSchema creates the database schema if it doesn't exist
func ensureSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS playbacks (
    id               INTEGER PRIMARY KEY,
    source           TEXT    NOT NULL,
    kind             TEXT    NOT NULL CHECK (kind IN ('file', 'url')),
    engine           TEXT    NOT NULL,
    started_at       INTEGER NOT NULL,
    duration_seconds REAL    NOT NULL DEFAULT 0,
    outcome          TEXT    NOT NULL CHECK (outcome IN ('completed', 'stopped', 'failed'))
);

CREATE INDEX IF NOT EXISTS idx_playbacks_started ON playbacks(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_playbacks_source ON playbacks(source);
CREATE INDEX IF NOT EXISTS idx_playbacks_outcome ON playbacks(outcome);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
