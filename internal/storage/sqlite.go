package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/docsearch-mcp/pkg/types"
)

// Store wraps the SQLite database holding the relational tables and the
// chunk full-text index. Reads are safe for concurrent use; writes go
// through a Tx produced by BeginTx.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at dbPath and
// bootstraps the schema.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginTx starts a write transaction.
func (s *Store) BeginTx(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx is a write transaction over the store. All build-time mutation happens
// inside a single Tx so readers never observe a partially populated index.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// InsertDoc inserts one document record.
func (t *Tx) InsertDoc(ctx context.Context, doc types.Document) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO docs (id, title, category, summary, date) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, nullable(doc.Category), doc.Summary, nullable(doc.Date))
	if err != nil {
		return fmt.Errorf("failed to insert doc %q: %w", doc.ID, err)
	}
	return nil
}

// InsertTag adds a tag name to the vocabulary. Inserting an already-present
// name is a no-op, not an error.
func (t *Tx) InsertTag(ctx context.Context, name string) error {
	_, err := t.tx.ExecContext(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to insert tag %q: %w", name, err)
	}
	return nil
}

// InsertDocTag records a document-tag membership.
func (t *Tx) InsertDocTag(ctx context.Context, docID, tag string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO doc_tags (doc_id, tag) VALUES (?, ?)`, docID, tag)
	if err != nil {
		return fmt.Errorf("failed to insert doc_tag %s/%s: %w", docID, tag, err)
	}
	return nil
}

// InsertChunk inserts one chunk into the full-text index. The tag list is
// serialized comma-joined with no surrounding delimiters.
func (t *Tx) InsertChunk(ctx context.Context, chunk types.Chunk) error {
	if err := chunk.Validate(); err != nil {
		return fmt.Errorf("invalid chunk %q: %w", chunk.ID, err)
	}
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO chunks (chunk_id, doc_id, title, text, category, tags, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		chunk.ID, chunk.DocID, chunk.Title, chunk.Text, chunk.Category,
		strings.Join(chunk.Tags, ","), strconv.Itoa(chunk.Position))
	if err != nil {
		return fmt.Errorf("failed to insert chunk %q: %w", chunk.ID, err)
	}
	return nil
}

// GetChunk returns the chunk with the given id, or ErrNotFound.
func (s *Store) GetChunk(ctx context.Context, chunkID string) (*ChunkRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT chunks.chunk_id, chunks.doc_id, chunks.title, chunks.text,
		       chunks.category, chunks.tags, chunks.position, IFNULL(docs.date, '')
		FROM chunks
		LEFT JOIN docs ON docs.id = chunks.doc_id
		WHERE chunks.chunk_id = ?
	`, chunkID)

	var c ChunkRow
	var position string
	err := row.Scan(&c.ChunkID, &c.DocID, &c.Title, &c.Text, &c.Category,
		&c.Tags, &position, &c.Date)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Position, _ = strconv.Atoi(position)
	return &c, nil
}

// GetDoc returns the document with the given id, tags resolved, or
// ErrNotFound.
func (s *Store) GetDoc(ctx context.Context, docID string) (*DocRow, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, IFNULL(category, ''), summary, IFNULL(date, '')
		FROM docs WHERE id = ?
	`, docID)

	var d DocRow
	err := row.Scan(&d.ID, &d.Title, &d.Category, &d.Summary, &d.Date)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Tags, err = s.docTags(ctx, d.ID); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListCategories returns the distinct non-null document categories.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM docs
		WHERE category IS NOT NULL AND category != ''
		ORDER BY category
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanStrings(rows)
}

// ListTags returns every tag name in the vocabulary, independent of current
// usage.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanStrings(rows)
}

// ListDocs returns documents matching an optional exact category and an
// optional all-tags filter, paginated over insertion order. An offset past
// the end yields an empty list.
func (s *Store) ListDocs(ctx context.Context, category string, tags []string, limit, offset int) ([]DocRow, error) {
	query := `
		SELECT id, title, IFNULL(category, ''), summary, IFNULL(date, '')
		FROM docs
		WHERE 1=1
	`
	var args []interface{}

	if category != "" {
		query += " AND category = ?"
		args = append(args, category)
	}
	tags = distinctTags(tags)
	if len(tags) > 0 {
		// A document matches only when every requested tag is present:
		// its membership rows restricted to the requested set must cover
		// the set. The coverage threshold counts distinct requested tags,
		// so a duplicated tag in the request cannot raise it past what any
		// document can satisfy.
		query += ` AND id IN (
			SELECT doc_id FROM doc_tags
			WHERE tag IN (` + placeholders(len(tags)) + `)
			GROUP BY doc_id
			HAVING COUNT(DISTINCT tag) >= ?
		)`
		for _, tag := range tags {
			args = append(args, tag)
		}
		args = append(args, len(tags))
	}

	query += " ORDER BY rowid LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]DocRow, 0)
	for rows.Next() {
		var d DocRow
		if err := rows.Scan(&d.ID, &d.Title, &d.Category, &d.Summary, &d.Date); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		if docs[i].Tags, err = s.docTags(ctx, docs[i].ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// RelatedDocs returns documents in the given category sharing at least one
// of the given tags, excluding excludeID, in insertion order. The caller is
// responsible for the source-document resolution rules.
func (s *Store) RelatedDocs(ctx context.Context, category string, tags []string, excludeID string, limit int) ([]DocRow, error) {
	if category == "" || len(tags) == 0 {
		return []DocRow{}, nil
	}

	query := `
		SELECT id, title, IFNULL(category, ''), summary, IFNULL(date, '')
		FROM docs
		WHERE category = ? AND id != ?
		  AND id IN (SELECT DISTINCT doc_id FROM doc_tags WHERE tag IN (` + placeholders(len(tags)) + `))
		ORDER BY rowid
		LIMIT ?
	`
	args := []interface{}{category, excludeID}
	for _, tag := range tags {
		args = append(args, tag)
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	docs := make([]DocRow, 0)
	for rows.Next() {
		var d DocRow
		if err := rows.Scan(&d.ID, &d.Title, &d.Category, &d.Summary, &d.Date); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range docs {
		if docs[i].Tags, err = s.docTags(ctx, docs[i].ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Counts reports row counts for docs, chunks, and tags.
func (s *Store) Counts(ctx context.Context) (*Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs`).Scan(&c.Docs); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&c.Chunks); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&c.Tags); err != nil {
		return nil, err
	}
	return &c, nil
}

// docTags returns a document's tags in membership insertion order, which
// matches the order they carried in the source front matter.
func (s *Store) docTags(ctx context.Context, docID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM doc_tags WHERE doc_id = ? ORDER BY rowid`, docID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanStrings(rows)
}

func scanStrings(rows *sql.Rows) ([]string, error) {
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// distinctTags removes duplicate entries, preserving first-seen order.
func distinctTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
