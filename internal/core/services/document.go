package services

import (
	"context"
	"fmt"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driven"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService lists stored documents and their chunks.
type DocumentService struct {
	store driven.VectorStore
}

// NewDocumentService creates a document service.
func NewDocumentService(store driven.VectorStore) *DocumentService {
	return &DocumentService{store: store}
}

// List returns the stored source ids.
func (s *DocumentService) List(ctx context.Context) ([]string, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources, nil
}

// Chunks returns every chunk of source.
func (s *DocumentService) Chunks(ctx context.Context, source string) ([]domain.Chunk, error) {
	if source == "" {
		return nil, fmt.Errorf("empty source: %w", domain.ErrInvalidInput)
	}
	chunks, err := s.store.FetchAllChunks(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %q: %w", source, domain.ErrNotFound)
	}
	return chunks, nil
}
