package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/render"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query     string  `json:"query" jsonschema:"the question or keywords to search procedures for"`
	Limit     int     `json:"limit,omitempty" jsonschema:"maximum number of matching chunks to consider (default 10)"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum similarity score between 0 and 1 (default 0.9)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is one matched document, reassembled as plain text.
type SearchResultOutput struct {
	Filename   string   `json:"filename"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights,omitempty"`
	Direction  string   `json:"direction"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	Source string `json:"source" jsonschema:"the document file name as returned by list_documents"`
}

// GetDocumentOutput is the output schema for the get_document tool.
type GetDocumentOutput struct {
	Source string        `json:"source"`
	Chunks []ChunkOutput `json:"chunks"`
}

// ChunkOutput is one stored chunk.
type ChunkOutput struct {
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the procedure library and return matching documents with the matched passages",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the file names of every ingested document",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Return every chunk of one ingested document",
	}, s.handleGetDocument)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{Limit: input.Limit, Threshold: input.Threshold}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		highlights := make([]string, len(r.Highlights))
		for j, h := range r.Highlights {
			highlights[j] = render.Plain(h)
		}
		output.Results[i] = SearchResultOutput{
			Filename:   r.Filename,
			Text:       render.Plain(r.Text),
			Highlights: highlights,
			Direction:  domain.Direction(r.Text),
		}
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, ErrDocumentsUnavailable
	}
	sources, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	return nil, ListDocumentsOutput{Documents: sources, Count: len(sources)}, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, GetDocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, GetDocumentOutput{}, ErrDocumentsUnavailable
	}
	chunks, err := s.ports.Document.Chunks(ctx, strings.TrimSpace(input.Source))
	if err != nil {
		return nil, GetDocumentOutput{}, err
	}

	output := GetDocumentOutput{Source: input.Source, Chunks: make([]ChunkOutput, len(chunks))}
	for i, c := range chunks {
		output.Chunks[i] = ChunkOutput{Heading: c.Heading, Text: c.PlainText}
	}
	return nil, output, nil
}
