package types

import "errors"

// Document is one source document as produced by the corpus loader.
// Documents are immutable after construction and are not retained after
// indexing; the stores keep their own copies of every field they need.
type Document struct {
	ID       string   // slug derived from the title, unique within a corpus
	Title    string
	Category string   // empty when the document has no category
	Tags     []string // normalized, order-preserving, may be empty
	Body     string   // raw markdown body, front matter stripped
	Summary  string
	Date     string // ISO date string, empty when absent
}

// Chunk is a bounded-size excerpt of a document body, the unit of search.
//
// Chunk IDs follow the scheme "<doc_id>#s<section>" for the sole or first
// part of a heading-delimited section and "<doc_id>#s<section>-<part>" for
// subsequent parts. Position is a running counter across the whole document,
// contiguous from zero in emission order.
type Chunk struct {
	ID       string
	DocID    string
	Title    string // enclosing heading text, empty for preamble sections
	Category string
	Tags     []string
	Position int
	Text     string
}

// Validate checks structural invariants of a chunk before it is persisted.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrMissingChunkID
	}
	if c.DocID == "" {
		return ErrMissingDocID
	}
	if c.Position < 0 {
		return ErrInvalidPosition
	}
	if c.Text == "" {
		return ErrEmptyChunkText
	}
	return nil
}

var (
	ErrMissingChunkID  = errors.New("chunk id is required")
	ErrMissingDocID    = errors.New("doc id is required")
	ErrInvalidPosition = errors.New("chunk position must be non-negative")
	ErrEmptyChunkText  = errors.New("chunk text cannot be empty")
)
