package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/docsearch-mcp/internal/indexer"
	"github.com/dshills/docsearch-mcp/internal/loader"
	"github.com/dshills/docsearch-mcp/internal/query"
	"github.com/dshills/docsearch-mcp/internal/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeBuildFailed   = -32001 // Index rebuild aborted
	ErrorCodeBuildRunning  = -32002 // Another rebuild is already running
)

// handleSearchDocs handles the search_docs tool invocation. A blank query is
// a valid call that returns an empty list, not an error.
func (s *Server) handleSearchDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	queryText, ok := args["query"].(string)
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "query parameter is required", map[string]interface{}{
			"param":  "query",
			"reason": "missing",
		})
	}

	limit := getIntDefault(args, "limit", s.cfg.SearchLimit)

	results, err := s.engine.Search(ctx, query.SearchRequest{
		Query:    queryText,
		Category: getStringDefault(args, "category", ""),
		Tags:     getStringSlice(args, "tags"),
		Limit:    limit,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"results": results,
		"count":   len(results),
	})), nil
}

// handleGetChunk handles the get_chunk tool invocation. An unknown id is a
// not-found result, not an error.
func (s *Server) handleGetChunk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	chunkID, ok := args["chunk_id"].(string)
	if !ok || chunkID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "chunk_id parameter is required", map[string]interface{}{
			"param":  "chunk_id",
			"reason": "missing or empty",
		})
	}

	chunk, err := s.engine.GetChunk(ctx, chunkID)
	if err == storage.ErrNotFound {
		return mcp.NewToolResultText(formatJSON(map[string]interface{}{
			"found":    false,
			"chunk_id": chunkID,
		})), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "chunk lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"found": true,
		"chunk": chunk,
	})), nil
}

// handleListCategories handles the list_categories tool invocation.
func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := s.engine.ListCategories(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list categories", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"categories": categories,
	})), nil
}

// handleListTags handles the list_tags tool invocation.
func (s *Server) handleListTags(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.engine.ListTags(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list tags", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"tags": tags,
	})), nil
}

// handleListDocs handles the list_docs tool invocation.
func (s *Server) handleListDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}

	docs, err := s.engine.ListDocs(ctx,
		getStringDefault(args, "category", ""),
		getStringSlice(args, "tags"),
		getIntDefault(args, "limit", 50),
		getIntDefault(args, "offset", 0),
	)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list docs", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"docs":  docs,
		"count": len(docs),
	})), nil
}

// handleRelatedDocs handles the related_docs tool invocation. At least one
// of doc_id and chunk_id must be supplied; doc_id takes priority.
func (s *Server) handleRelatedDocs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	docID := getStringDefault(args, "doc_id", "")
	chunkID := getStringDefault(args, "chunk_id", "")
	if docID == "" && chunkID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "doc_id or chunk_id is required", map[string]interface{}{
			"reason": "neither doc_id nor chunk_id was given",
		})
	}

	docs, err := s.engine.RelatedDocs(ctx, docID, chunkID, getIntDefault(args, "limit", 5))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to find related docs", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"docs":  docs,
		"count": len(docs),
	})), nil
}

// handleRebuildIndex handles the rebuild_index tool invocation. The rebuild
// is whole-corpus and all-or-nothing; a failure leaves no partial state.
func (s *Server) handleRebuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}

	corpusDir := getStringDefault(args, "corpus_dir", s.cfg.CorpusDir)
	docs, err := loader.LoadDir(corpusDir)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "failed to load corpus", map[string]interface{}{
			"corpus_dir": corpusDir,
			"error":      err.Error(),
		})
	}

	stats, err := s.indexer.Build(ctx, docs)
	if errors.Is(err, indexer.ErrBuildInProgress) {
		return nil, newMCPError(ErrorCodeBuildRunning, "a rebuild is already running", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeBuildFailed, "rebuild failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.engine.InvalidateCache()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"rebuilt":     true,
		"docs":        stats.Docs,
		"chunks":      stats.Chunks,
		"tags":        stats.Tags,
		"duration_ms": stats.Duration.Milliseconds(),
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice extracts a string-array parameter; non-string entries are
// dropped.
func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
