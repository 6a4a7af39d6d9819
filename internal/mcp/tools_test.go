package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/docsearch-mcp/internal/config"
	"github.com/dshills/docsearch-mcp/pkg/types"
)

// newTestServer builds a server over a small indexed corpus in a temp dir.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = filepath.Join(dir, "index.db")
	cfg.CorpusDir = filepath.Join(dir, "docs")
	cfg.SearchLimit = 10

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.store.Close() })

	docs := []types.Document{
		{ID: "turbo-drive", Title: "Turbo Drive", Category: "Turbo",
			Tags: []string{"rendering", "caching"},
			Body: "# Navigation\n\nTurbo Drive intercepts clicks and swaps the body."},
		{ID: "turbo-frames", Title: "Turbo Frames", Category: "Turbo",
			Tags: []string{"rendering"},
			Body: "# Frames\n\nFrames scope navigation to a fragment."},
	}
	_, err = s.indexer.Build(context.Background(), docs)
	require.NoError(t, err)

	return s
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultJSON decodes the text payload of a tool result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "content should be text")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	return decoded
}

func TestHandleSearchDocs(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleSearchDocs(ctx, callRequest("search_docs", map[string]interface{}{
		"query": "navigation",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Greater(t, payload["count"].(float64), float64(0))

	// A blank query is a valid request with an empty answer
	result, err = s.handleSearchDocs(ctx, callRequest("search_docs", map[string]interface{}{
		"query": "   ",
	}))
	require.NoError(t, err)
	payload = resultJSON(t, result)
	assert.Equal(t, float64(0), payload["count"])

	// A missing query is a parameter error
	_, err = s.handleSearchDocs(ctx, callRequest("search_docs", map[string]interface{}{}))
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleSearchDocs_Filters(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleSearchDocs(context.Background(), callRequest("search_docs", map[string]interface{}{
		"query":    "navigation",
		"category": "Turbo",
		"tags":     []interface{}{"caching"},
		"limit":    float64(5),
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)

	results := payload["results"].([]interface{})
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "turbo-drive", r.(map[string]interface{})["doc_id"])
	}
}

func TestHandleGetChunk(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleGetChunk(ctx, callRequest("get_chunk", map[string]interface{}{
		"chunk_id": "turbo-drive#s0",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, true, payload["found"])
	chunk := payload["chunk"].(map[string]interface{})
	assert.Equal(t, "turbo-drive", chunk["doc_id"])

	// Unknown ids are a not-found result, not a protocol error
	result, err = s.handleGetChunk(ctx, callRequest("get_chunk", map[string]interface{}{
		"chunk_id": "ghost#s0",
	}))
	require.NoError(t, err)
	payload = resultJSON(t, result)
	assert.Equal(t, false, payload["found"])
	assert.Equal(t, "ghost#s0", payload["chunk_id"])

	// A missing id is a parameter error
	_, err = s.handleGetChunk(ctx, callRequest("get_chunk", map[string]interface{}{}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleListCategoriesAndTags(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleListCategories(ctx, callRequest("list_categories", nil))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, []interface{}{"Turbo"}, payload["categories"])

	result, err = s.handleListTags(ctx, callRequest("list_tags", nil))
	require.NoError(t, err)
	payload = resultJSON(t, result)
	assert.ElementsMatch(t, []interface{}{"caching", "rendering"}, payload["tags"])
}

func TestHandleListDocs(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleListDocs(context.Background(), callRequest("list_docs", map[string]interface{}{
		"tags": []interface{}{"caching"},
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, float64(1), payload["count"])
	docs := payload["docs"].([]interface{})
	assert.Equal(t, "turbo-drive", docs[0].(map[string]interface{})["id"])
}

func TestHandleRelatedDocs(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleRelatedDocs(ctx, callRequest("related_docs", map[string]interface{}{
		"doc_id": "turbo-drive",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, float64(1), payload["count"])

	_, err = s.handleRelatedDocs(ctx, callRequest("related_docs", map[string]interface{}{}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestHandleRebuildIndex(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	corpus := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(corpus, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "guide.md"), []byte(
		"---\ntitle: Guide\ncategory: Guides\ntags: [reference]\nready: true\n---\n# Guide\n\nFresh content.\n"), 0o644))

	result, err := s.handleRebuildIndex(ctx, callRequest("rebuild_index", map[string]interface{}{
		"corpus_dir": corpus,
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, true, payload["rebuilt"])
	assert.Equal(t, float64(1), payload["docs"])

	// The rebuilt store replaces prior content entirely
	searchResult, err := s.handleSearchDocs(ctx, callRequest("search_docs", map[string]interface{}{
		"query": "navigation",
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(0), resultJSON(t, searchResult)["count"])

	// An unreadable corpus directory is a parameter error
	_, err = s.handleRebuildIndex(ctx, callRequest("rebuild_index", map[string]interface{}{
		"corpus_dir": filepath.Join(corpus, "missing"),
	}))
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestErrorCodesUnique(t *testing.T) {
	codes := map[int]string{}
	for name, code := range map[string]int{
		"ErrorCodeInvalidParams": ErrorCodeInvalidParams,
		"ErrorCodeInternalError": ErrorCodeInternalError,
		"ErrorCodeBuildFailed":   ErrorCodeBuildFailed,
		"ErrorCodeBuildRunning":  ErrorCodeBuildRunning,
	} {
		assert.Negative(t, code, "%s should be negative", name)
		if prior, dup := codes[code]; dup {
			t.Errorf("%s duplicates code %d used by %s", name, code, prior)
		}
		codes[code] = name
	}
}

func TestMCPError(t *testing.T) {
	err := newMCPError(-32602, "invalid params", map[string]interface{}{"param": "query"})

	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, "MCP error -32602: invalid params", mcpErr.Error())
	assert.Equal(t, -32602, mcpErr.Code)
}

func TestParamHelpers(t *testing.T) {
	args := map[string]interface{}{
		"float":  float64(7),
		"int":    3,
		"str":    "value",
		"tags":   []interface{}{"a", 1, "b"},
		"mixed":  "not-a-number",
		"nonarr": "single",
	}

	assert.Equal(t, 7, getIntDefault(args, "float", 99))
	assert.Equal(t, 3, getIntDefault(args, "int", 99))
	assert.Equal(t, 99, getIntDefault(args, "mixed", 99))
	assert.Equal(t, 99, getIntDefault(args, "absent", 99))

	assert.Equal(t, "value", getStringDefault(args, "str", "fallback"))
	assert.Equal(t, "fallback", getStringDefault(args, "absent", "fallback"))

	assert.Equal(t, []string{"a", "b"}, getStringSlice(args, "tags"))
	assert.Nil(t, getStringSlice(args, "nonarr"))
	assert.Nil(t, getStringSlice(args, "absent"))
}
