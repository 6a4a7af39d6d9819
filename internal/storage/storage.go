package storage

import "errors"

// ErrNotFound is returned when a point lookup misses. Callers translate it
// to an empty result; it never carries partial data.
var ErrNotFound = errors.New("not found")

// ChunkRow is one row of the chunk full-text index. Tags are stored
// comma-joined with no surrounding delimiters ("ruby,backend"); parsing to a
// list is the query engine's job. Date is resolved from the parent document
// and is empty when the document has none.
type ChunkRow struct {
	ChunkID  string
	DocID    string
	Title    string
	Text     string
	Category string
	Tags     string
	Position int
	Score    float64
	Date     string
}

// DocRow is one row of the docs table with its tag memberships resolved in
// insertion order.
type DocRow struct {
	ID       string
	Title    string
	Category string
	Summary  string
	Date     string
	Tags     []string
}

// Counts reports store row counts after a build.
type Counts struct {
	Docs   int
	Chunks int
	Tags   int
}
