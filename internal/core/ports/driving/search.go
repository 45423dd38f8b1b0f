package driving

import (
	"context"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
)

// SearchService provides aggregated similarity search to external actors.
type SearchService interface {
	// Search returns one aggregated result per matched source document.
	// Zero hits yield an empty slice and record the query as unanswered.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.AggregatedDocument, error)
}
