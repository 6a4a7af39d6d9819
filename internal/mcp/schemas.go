package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchDocsTool returns the tool definition for search_docs
func searchDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_docs",
		Description: "Full-text search over indexed documentation passages",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms; matched literally against passage text",
				},
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Restrict results to one document category",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to passages carrying all of these tags",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getChunkTool returns the tool definition for get_chunk
func getChunkTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_chunk",
		Description: "Fetch one passage by its id, with full text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"chunk_id": map[string]interface{}{
					"type":        "string",
					"description": "Passage id, e.g. \"turbo-drive#s2\" or \"turbo-drive#s2-1\"",
				},
			},
			Required: []string{"chunk_id"},
		},
	}
}

// listCategoriesTool returns the tool definition for list_categories
func listCategoriesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_categories",
		Description: "List the distinct document categories in the index",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listTagsTool returns the tool definition for list_tags
func listTagsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_tags",
		Description: "List every tag name in the vocabulary",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// listDocsTool returns the tool definition for list_docs
func listDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_docs",
		Description: "List indexed documents, optionally filtered by category and tags",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"category": map[string]interface{}{
					"type":        "string",
					"description": "Exact category to match",
				},
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Only documents carrying all of these tags",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Page size",
					"default":     50,
					"minimum":     1,
				},
				"offset": map[string]interface{}{
					"type":        "integer",
					"description": "Number of documents to skip",
					"default":     0,
					"minimum":     0,
				},
			},
		},
	}
}

// relatedDocsTool returns the tool definition for related_docs
func relatedDocsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "related_docs",
		Description: "Find documents sharing the source document's category and at least one tag",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"doc_id": map[string]interface{}{
					"type":        "string",
					"description": "Source document id; takes priority over chunk_id",
				},
				"chunk_id": map[string]interface{}{
					"type":        "string",
					"description": "Passage id whose parent document becomes the source",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of related documents",
					"default":     5,
					"minimum":     1,
				},
			},
		},
	}
}

// rebuildIndexTool returns the tool definition for rebuild_index
func rebuildIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rebuild_index",
		Description: "Rebuild the whole index from the corpus directory (all-or-nothing)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"corpus_dir": map[string]interface{}{
					"type":        "string",
					"description": "Directory of markdown documents; defaults to the configured corpus",
				},
			},
		},
	}
}
