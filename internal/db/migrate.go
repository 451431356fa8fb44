package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates the journal schema. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id             TEXT PRIMARY KEY,
		seq            INTEGER NOT NULL UNIQUE,
		generation     INTEGER NOT NULL DEFAULT 0,
		kind           TEXT NOT NULL CHECK(kind IN ('plan','notice')),
		op             TEXT NOT NULL,
		outing_id      TEXT NOT NULL DEFAULT '',
		replaced_index INTEGER NOT NULL DEFAULT -1,
		budget         INTEGER NOT NULL DEFAULT 0,
		interests      TEXT NOT NULL DEFAULT '[]',
		mode           TEXT NOT NULL DEFAULT '',
		total_cost     REAL NOT NULL DEFAULT 0,
		total_duration INTEGER NOT NULL DEFAULT 0,
		message        TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_journal_entries_order ON journal_entries(generation, seq)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_kind ON journal_entries(kind, generation, seq)`,

	`CREATE TABLE IF NOT EXISTS journal_events (
		entry_id  TEXT NOT NULL REFERENCES journal_entries(id) ON DELETE CASCADE,
		position  INTEGER NOT NULL CHECK(position >= 0),
		type      TEXT NOT NULL,
		name      TEXT NOT NULL,
		cost      REAL NOT NULL CHECK(cost >= 0),
		duration  INTEGER NOT NULL CHECK(duration >= 0),
		image_url TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (entry_id, position)
	)`,
}
