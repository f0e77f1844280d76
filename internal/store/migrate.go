package store

import (
	"database/sql"
	"fmt"
)

// schema lists the DDL for every table, applied in order on Open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS cache_entries (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		namespace  TEXT    NOT NULL,
		entry_key  TEXT    NOT NULL,
		payload    TEXT    NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS cache_entries_namespace ON cache_entries (namespace, id)`,
	`CREATE TABLE IF NOT EXISTS cache_latest (
		namespace  TEXT PRIMARY KEY,
		entry_key  TEXT    NOT NULL,
		payload    TEXT    NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		created_at    INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose ON llm_request_events (purpose)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
