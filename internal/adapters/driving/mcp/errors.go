// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants search the procedure library and read its documents.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrDocumentsUnavailable is returned by document tools when no document service is wired.
var ErrDocumentsUnavailable = errors.New("mcp: document service not configured")
