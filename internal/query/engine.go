package query

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/docsearch-mcp/internal/storage"
)

const (
	// SnippetLength is the maximum snippet size in bytes.
	SnippetLength = 400

	// cacheSize bounds the search-result cache.
	cacheSize = 1000
)

// Engine is the stateless read API over a built store. It holds an explicit
// store reference passed at construction; there is no ambient state, and
// every operation is independently and concurrently invokable.
type Engine struct {
	store *storage.Store
	cache *lru.Cache[[32]byte, []SearchResult]
}

// SearchRequest carries the parameters of one search call.
type SearchRequest struct {
	Query    string
	Category string
	Tags     []string
	Limit    int
}

// SearchResult is one ranked passage.
type SearchResult struct {
	ChunkID  string   `json:"chunk_id"`
	DocID    string   `json:"doc_id"`
	Title    string   `json:"title,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags"`
	Position int      `json:"position"`
	Score    float64  `json:"score"`
	Snippet  string   `json:"snippet"`
	Date     string   `json:"date,omitempty"`
}

// ChunkDetail is a fully resolved chunk.
type ChunkDetail struct {
	ChunkID  string   `json:"chunk_id"`
	DocID    string   `json:"doc_id"`
	Title    string   `json:"title,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags"`
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Date     string   `json:"date,omitempty"`
}

// DocSummary is one document in a listing or relatedness result.
type DocSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Date     string   `json:"date,omitempty"`
	Tags     []string `json:"tags"`
}

// NewEngine creates an Engine reading from store.
func NewEngine(store *storage.Store) *Engine {
	cache, err := lru.New[[32]byte, []SearchResult](cacheSize)
	if err != nil {
		// Only reachable with an invalid size constant
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	return &Engine{store: store, cache: cache}
}

// InvalidateCache drops all cached search results. The indexer's caller
// invokes it after every rebuild.
func (e *Engine) InvalidateCache() {
	e.cache.Purge()
}

// Search returns ranked passages matching the request. An empty or
// whitespace-only query yields an empty result without touching the index,
// as does a non-positive limit.
func (e *Engine) Search(ctx context.Context, req SearchRequest) ([]SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" || req.Limit <= 0 {
		return []SearchResult{}, nil
	}
	tags := normalizeTags(req.Tags)

	key := searchCacheKey(query, req.Category, tags, req.Limit)
	if cached, ok := e.cache.Get(key); ok {
		out := make([]SearchResult, len(cached))
		copy(out, cached)
		return out, nil
	}

	rows, err := e.store.SearchChunks(ctx, query, req.Category, tags, req.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		results = append(results, SearchResult{
			ChunkID:  row.ChunkID,
			DocID:    row.DocID,
			Title:    row.Title,
			Category: row.Category,
			Tags:     splitTags(row.Tags),
			Position: row.Position,
			Score:    row.Score,
			Snippet:  snippet(row.Text),
			Date:     row.Date,
		})
	}

	e.cache.Add(key, results)
	return results, nil
}

// GetChunk returns the chunk with the given id fully resolved, or
// storage.ErrNotFound when the id is blank or absent.
func (e *Engine) GetChunk(ctx context.Context, chunkID string) (*ChunkDetail, error) {
	chunkID = strings.TrimSpace(chunkID)
	if chunkID == "" {
		return nil, storage.ErrNotFound
	}
	row, err := e.store.GetChunk(ctx, chunkID)
	if err != nil {
		return nil, err
	}
	return &ChunkDetail{
		ChunkID:  row.ChunkID,
		DocID:    row.DocID,
		Title:    row.Title,
		Category: row.Category,
		Tags:     splitTags(row.Tags),
		Position: row.Position,
		Text:     row.Text,
		Date:     row.Date,
	}, nil
}

// ListCategories returns the distinct document categories.
func (e *Engine) ListCategories(ctx context.Context) ([]string, error) {
	return e.store.ListCategories(ctx)
}

// ListTags returns the tag vocabulary.
func (e *Engine) ListTags(ctx context.Context) ([]string, error) {
	return e.store.ListTags(ctx)
}

// ListDocs returns documents matching an optional exact category and an
// optional all-tags filter, paginated over a stable order.
func (e *Engine) ListDocs(ctx context.Context, category string, tags []string, limit, offset int) ([]DocSummary, error) {
	if limit <= 0 || offset < 0 {
		return []DocSummary{}, nil
	}
	rows, err := e.store.ListDocs(ctx, category, normalizeTags(tags), limit, offset)
	if err != nil {
		return nil, err
	}
	return docSummaries(rows), nil
}

// RelatedDocs returns documents related to a source document by
// category-plus-tag overlap. doc_id takes priority over chunk_id; an
// unresolvable source, or a source without both a category and tags, yields
// an empty result.
func (e *Engine) RelatedDocs(ctx context.Context, docID, chunkID string, limit int) ([]DocSummary, error) {
	if limit <= 0 {
		return []DocSummary{}, nil
	}

	sourceID := strings.TrimSpace(docID)
	if sourceID == "" {
		chunkID = strings.TrimSpace(chunkID)
		if chunkID == "" {
			return []DocSummary{}, nil
		}
		chunk, err := e.store.GetChunk(ctx, chunkID)
		if err == storage.ErrNotFound {
			return []DocSummary{}, nil
		}
		if err != nil {
			return nil, err
		}
		sourceID = chunk.DocID
	}

	source, err := e.store.GetDoc(ctx, sourceID)
	if err == storage.ErrNotFound {
		return []DocSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	if source.Category == "" || len(source.Tags) == 0 {
		return []DocSummary{}, nil
	}

	rows, err := e.store.RelatedDocs(ctx, source.Category, source.Tags, source.ID, limit)
	if err != nil {
		return nil, err
	}
	return docSummaries(rows), nil
}

func docSummaries(rows []storage.DocRow) []DocSummary {
	out := make([]DocSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, DocSummary{
			ID:       row.ID,
			Title:    row.Title,
			Category: row.Category,
			Summary:  row.Summary,
			Date:     row.Date,
			Tags:     row.Tags,
		})
	}
	return out
}

// snippet returns the first SnippetLength bytes of text, cut back to a rune
// boundary.
func snippet(text string) string {
	if len(text) <= SnippetLength {
		return text
	}
	cut := SnippetLength
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// splitTags parses the stored comma-joined tag field back into a list.
func splitTags(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

// normalizeTags drops null-ish and blank entries and removes duplicates,
// preserving first-seen order; an empty result means "no tag filter".
// Deduplication keeps cache keys canonical and keeps the all-tags coverage
// count at the number of distinct requested tags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// searchCacheKey hashes the full request so distinct filter combinations
// never collide.
func searchCacheKey(query, category string, tags []string, limit int) [32]byte {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d", query, category, strings.Join(tags, "\x00"), limit)
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}
