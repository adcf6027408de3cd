package repository

import (
	"context"
	"fmt"
)

// Column types are kept to the subset sqlite and postgres both accept.
// Timestamps are RFC 3339 text so both drivers scan them the same way.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS split_run (
		id             TEXT PRIMARY KEY,
		pdf_path       TEXT NOT NULL,
		content_hash   TEXT NOT NULL,
		status         TEXT NOT NULL,
		provider       TEXT NOT NULL,
		model          TEXT NOT NULL,
		degraded       BOOLEAN NOT NULL DEFAULT FALSE,
		page_count     INTEGER NOT NULL DEFAULT 0,
		document_count INTEGER NOT NULL DEFAULT 0,
		error_message  TEXT,
		started_at     TEXT NOT NULL,
		finished_at    TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS split_run_hash_status_idx ON split_run (content_hash, status)`,
	`CREATE TABLE IF NOT EXISTS split_document (
		run_id      TEXT NOT NULL REFERENCES split_run (id) ON DELETE CASCADE,
		document_id INTEGER NOT NULL,
		start_page  INTEGER NOT NULL,
		end_page    INTEGER NOT NULL,
		page_count  INTEGER NOT NULL,
		title       TEXT NOT NULL,
		summary     TEXT NOT NULL,
		doc_date    TEXT NOT NULL,
		doc_type    TEXT NOT NULL,
		doc_number  TEXT NOT NULL,
		doc_value   TEXT NOT NULL,
		subject     TEXT NOT NULL,
		category    TEXT NOT NULL,
		PRIMARY KEY (run_id, document_id)
	)`,
	`CREATE TABLE IF NOT EXISTS split_page (
		run_id          TEXT NOT NULL REFERENCES split_run (id) ON DELETE CASCADE,
		page_number     INTEGER NOT NULL,
		method          TEXT NOT NULL,
		source          TEXT NOT NULL,
		is_new_document BOOLEAN NOT NULL,
		signals         TEXT NOT NULL,
		judgment        TEXT NOT NULL,
		PRIMARY KEY (run_id, page_number)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
