package mcp

import (
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides aggregated similarity search.
	Search driving.SearchService

	// Document lists stored documents and their chunks.
	Document driving.DocumentService

	// Question exposes the unanswered question log.
	Question driving.QuestionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
