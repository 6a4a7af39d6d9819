// Package mcp exposes the docsearch operations as MCP tools over stdio.
//
// Seven tools are registered: search_docs, get_chunk, list_categories,
// list_tags, list_docs, related_docs, and rebuild_index. Handlers validate
// and default their arguments, delegate to the query engine or indexer, and
// return results as indented JSON text. Missing required arguments are
// rejected with invalid-params errors; not-found lookups and empty search
// results are successful responses, never protocol errors.
package mcp
