// Package types provides shared type definitions for the docsearch MCP server.
//
// Document is a loaded corpus document; Chunk is the unit of search produced
// by the splitter. Both are plain value types with no behavior beyond
// validation, so every component can depend on them without importing each
// other.
package types
