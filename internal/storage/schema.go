package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// The chunks virtual table's column set is the on-disk contract shared with
// existing stores; changing it breaks compatibility.
const schema = `
CREATE TABLE IF NOT EXISTS docs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT,
    summary TEXT NOT NULL DEFAULT '',
    date TEXT
);

CREATE TABLE IF NOT EXISTS tags (
    name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS doc_tags (
    doc_id TEXT NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
    tag TEXT NOT NULL REFERENCES tags(name),
    PRIMARY KEY (doc_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_doc_tags_tag ON doc_tags(tag);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks USING fts5(
    chunk_id, doc_id, title, text, category, tags, position
);
`

// applySchema creates all tables. Every statement is idempotent, so applying
// the schema to an already-bootstrapped store is a no-op.
func applySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Reset drops every table and recreates the schema, leaving an empty store.
// A build runs Reset first so no stale rows from a prior corpus can leak
// into the rebuilt index.
func (s *Store) Reset(ctx context.Context) error {
	drops := []string{
		`DROP TABLE IF EXISTS doc_tags`,
		`DROP TABLE IF EXISTS tags`,
		`DROP TABLE IF EXISTS docs`,
		`DROP TABLE IF EXISTS chunks`,
	}
	for _, stmt := range drops {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to reset store: %w", err)
		}
	}
	return applySchema(ctx, s.db)
}
