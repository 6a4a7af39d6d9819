package storage

import (
	"context"
	"strconv"
	"strings"
)

// SearchChunks runs a ranked full-text query over the chunk index,
// optionally restricted to a category and to chunks carrying all of the
// given tags. Results come back in strictly non-increasing score order,
// capped at limit. The score is derived from SQLite's bm25 ranking; only
// "higher is more relevant" is guaranteed, not a sign or scale.
//
// The user query is matched against the text column only, as an escaped
// FTS5 phrase, so input containing MATCH syntax is treated literally and can
// never alter the query's structure. A query that matches nothing simply
// yields zero rows.
func (s *Store) SearchChunks(ctx context.Context, query, category string, tags []string, limit int) ([]ChunkRow, error) {
	if limit <= 0 {
		return []ChunkRow{}, nil
	}

	sqlQuery := `
		SELECT chunks.chunk_id, chunks.doc_id, chunks.title, chunks.text,
		       chunks.category, chunks.tags, chunks.position,
		       -bm25(chunks) AS score, IFNULL(docs.date, '')
		FROM chunks
		LEFT JOIN docs ON docs.id = chunks.doc_id
		WHERE chunks MATCH ?
	`
	args := []interface{}{"text: " + escapeFTSQuery(query)}

	if category != "" {
		sqlQuery += " AND chunks.category = ?"
		args = append(args, category)
	}
	for _, tag := range tags {
		sqlQuery, args = appendTagFilter(sqlQuery, args, tag)
	}

	sqlQuery += " ORDER BY score DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := make([]ChunkRow, 0, limit)
	for rows.Next() {
		var c ChunkRow
		var position string
		err := rows.Scan(&c.ChunkID, &c.DocID, &c.Title, &c.Text, &c.Category,
			&c.Tags, &position, &c.Score, &c.Date)
		if err != nil {
			return nil, err
		}
		c.Position, _ = strconv.Atoi(position)
		results = append(results, c)
	}
	return results, rows.Err()
}

// appendTagFilter restricts results to chunks whose comma-joined tag field
// contains tag as a whole entry: equal to the whole field, at either edge,
// or comma-delimited in the middle. A raw substring match would let "java"
// match inside "javascript". The tag is escaped before entering the LIKE
// patterns so % and _ in a requested tag match only themselves.
func appendTagFilter(query string, args []interface{}, tag string) (string, []interface{}) {
	query += ` AND (chunks.tags = ?
		OR chunks.tags LIKE ? ESCAPE '\'
		OR chunks.tags LIKE ? ESCAPE '\'
		OR chunks.tags LIKE ? ESCAPE '\')`
	esc := escapeLike(tag)
	args = append(args, tag, esc+",%", "%,"+esc, "%,"+esc+",%")
	return query, args
}

// escapeLike backslash-escapes the LIKE metacharacters in s, matching the
// ESCAPE '\' clause on the patterns built above.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeFTSQuery wraps the user query in an FTS5 phrase string, doubling any
// embedded double quotes. The result is always a single literal phrase:
// operators, wildcards, column filters, and parentheses in the input lose
// their meaning.
func escapeFTSQuery(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}
