// Package api exposes the procedure library over HTTP using gin.
package api

import (
	"errors"

	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("api: search service is required")

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	// Search is required.
	Search driving.SearchService

	// Answer enables POST /api/ask.
	Answer driving.AnswerService

	// Ingest enables document uploads.
	Ingest driving.IngestService

	// Document enables document browsing.
	Document driving.DocumentService

	// Question enables the unanswered question endpoints.
	Question driving.QuestionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
