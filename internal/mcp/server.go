package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/docsearch-mcp/internal/config"
	"github.com/dshills/docsearch-mcp/internal/indexer"
	"github.com/dshills/docsearch-mcp/internal/query"
	"github.com/dshills/docsearch-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "docsearch-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp     *server.MCPServer
	cfg     *config.Config
	store   *storage.Store
	indexer *indexer.Indexer
	engine  *query.Engine
}

// NewServer creates a new MCP server instance backed by the database at
// cfg.DBPath.
func NewServer(cfg *config.Config) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		cfg:     cfg,
		store:   store,
		indexer: indexer.New(store),
		engine:  query.NewEngine(store),
	}
	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until ctx is cancelled or
// stdin closes. Cancelling ctx is the shutdown path; the store is closed on
// the way out.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.store.Close() }()
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocsTool(), s.handleSearchDocs)
	s.mcp.AddTool(getChunkTool(), s.handleGetChunk)
	s.mcp.AddTool(listCategoriesTool(), s.handleListCategories)
	s.mcp.AddTool(listTagsTool(), s.handleListTags)
	s.mcp.AddTool(listDocsTool(), s.handleListDocs)
	s.mcp.AddTool(relatedDocsTool(), s.handleRelatedDocs)
	s.mcp.AddTool(rebuildIndexTool(), s.handleRebuildIndex)
}
