package driving

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// DocumentService browses the stored documents.
type DocumentService interface {
	// List returns the distinct source ids, sorted.
	List(ctx context.Context) ([]string, error)

	// Chunks returns all chunks of a source in store order.
	// Returns domain.ErrNotFound when the source has no chunks.
	Chunks(ctx context.Context, source string) ([]domain.Chunk, error)
}
