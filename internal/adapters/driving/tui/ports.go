// Package tui provides an interactive terminal user interface for the
// procedure library. It implements a driving adapter following hexagonal
// architecture principles.
package tui

import (
	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search finds documents. Required.
	Search driving.SearchService

	// Answer generates answers. Questions run as plain searches when nil.
	Answer driving.AnswerService

	// Document lists ingested documents and their chunks.
	Document driving.DocumentService

	// Question manages the unanswered question log.
	Question driving.QuestionService

	// SearchOptions are used for every question. Zero fields take defaults.
	SearchOptions domain.SearchOptions
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
