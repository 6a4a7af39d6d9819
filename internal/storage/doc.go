// Package storage persists the document corpus index in SQLite.
//
// Three relational tables hold documents, the tag vocabulary, and
// document-tag memberships. Passages live in an FTS5 virtual table with the
// fixed column set (chunk_id, doc_id, title, text, category, tags,
// position); that layout is the on-disk contract shared with existing
// stores.
//
// All mutation happens inside a single Tx during a build; every read method
// is safe for concurrent use against a completed store. The SQLite driver is
// selected at build time: modernc.org/sqlite by default, mattn/go-sqlite3
// under the cgo_sqlite tag.
package storage
