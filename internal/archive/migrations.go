package archive

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL migration statements.
// Each entry is applied once in order. New migrations are appended at the end.
var migrations = []string{
	// Migration 0: initial schema
	`CREATE TABLE IF NOT EXISTS cycles (
		id              TEXT PRIMARY KEY,
		started_at      DATETIME NOT NULL,
		alert_count     INTEGER NOT NULL DEFAULT 0,
		conflict_count  INTEGER NOT NULL DEFAULT 0,
		propagated      INTEGER NOT NULL DEFAULT 0,
		report          TEXT NOT NULL,
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS entries (
		entry_id   TEXT NOT NULL,
		layer      TEXT NOT NULL,
		source     TEXT NOT NULL,
		content    TEXT NOT NULL,
		category   TEXT,
		metadata   TEXT NOT NULL DEFAULT '{}',
		timestamp  DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (layer, entry_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_entries_layer   ON entries(layer)`,
	`CREATE INDEX IF NOT EXISTS idx_cycles_started  ON cycles(started_at DESC)`,

	// Migration 1: migration tracking table
	`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// applyMigrations runs any migrations that have not yet been applied.
func applyMigrations(conn *sql.DB) error {
	// Ensure the migration tracking table exists first.
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmt := range migrations {
		var count int
		row := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, i)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", i, err)
		}
		if count > 0 {
			continue
		}

		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}

		if _, err := conn.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i); err != nil {
			return fmt.Errorf("record migration %d: %w", i, err)
		}
	}

	return nil
}
