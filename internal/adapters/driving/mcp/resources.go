package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pmatancambium/cambium-procedures/internal/render"
)

const (
	// uriScheme is the custom URI scheme for library resources.
	uriScheme = "procedures://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "documents",
		Name:        "documents",
		Description: "File names of every ingested document",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{source}",
		Name:        "document-content",
		Description: "Full text of one ingested document",
		MIMEType:    "text/plain",
	}, s.handleDocumentContentResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "questions",
		Name:        "unanswered-questions",
		Description: "Questions that matched no document, newest first",
		MIMEType:    "application/json",
	}, s.handleQuestionsResource)
}

// handleDocumentsResource returns the list of stored documents.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	sources, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling documents: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

// handleDocumentContentResource returns the text of one document.
func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Document == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	source := extractSource(req.Params.URI)
	if source == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Document.Chunks(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", source, err)
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = render.Plain(c.DisplayText())
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(parts, "\n\n"),
		}},
	}, nil
}

// handleQuestionsResource returns the unanswered question log.
func (s *Server) handleQuestionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Question == nil {
		return jsonResource(req.Params.URI, "[]"), nil
	}

	questions, err := s.ports.Question.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling questions: %w", err)
	}
	return jsonResource(req.Params.URI, string(data)), nil
}

func jsonResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractSource extracts the source from a URI like procedures://documents/{source}.
// The source may be percent-encoded.
func extractSource(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	source := strings.TrimPrefix(uri, prefix)
	if unescaped, err := url.PathUnescape(source); err == nil {
		source = unescaped
	}
	return source
}
